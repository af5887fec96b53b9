package config

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string `mapstructure:"mode"`
	StatusPort int    `mapstructure:"status_port"`

	ServerURL   string `mapstructure:"server_url"`
	Token       string `mapstructure:"token"`
	UserID      string `mapstructure:"user_id"`
	CommunityID string `mapstructure:"community_id"`
	RoomID      string `mapstructure:"room_id"`

	ICEServers    []string `mapstructure:"ice_servers"`
	ICEUsername   string   `mapstructure:"ice_username"`
	ICECredential string   `mapstructure:"ice_credential"`

	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
	GlarePolicy    string        `mapstructure:"glare_policy"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("status_port", 8081)
	v.SetDefault("server_url", "ws://localhost:8080/rtc/websocket")
	v.SetDefault("community_id", "0")
	v.SetDefault("room_id", "main")
	v.SetDefault("ice_servers", []string{"stun:stun.l.google.com:19302"})
	v.SetDefault("reconnect_delay", "2s")
	v.SetDefault("glare_policy", "always")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.UserID == "" {
		cfg.UserID = uuid.NewString()
	}
	fmt.Printf("🧩 Mode: %s | Room: %s | Server: %s\n", cfg.Mode, cfg.RoomID, cfg.ServerURL)
	return &cfg, nil
}
