package domain

type (
	RoomID      string
	CommunityID string
)

// SoloCommunity is the sentinel community for rooms that do not belong
// to any community.
const SoloCommunity CommunityID = "0"

// RoomKey derives the wire-level room identifier the server expects:
// plain rooms are prefixed "r-", community rooms "c-".
func RoomKey(community CommunityID, room RoomID) string {
	if community == SoloCommunity {
		return "r-" + string(room)
	}
	return "c-" + string(room)
}
