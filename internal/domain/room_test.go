package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomKey(t *testing.T) {
	assert.Equal(t, "r-167", RoomKey(SoloCommunity, "167"))
	assert.Equal(t, "c-167", RoomKey("49", "167"))
	assert.Equal(t, "c-main", RoomKey("12", "main"))
}
