package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Room   RoomConfig     `hcl:"room,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// RoomConfig defines the rules applied to every room the server opens.
type RoomConfig struct {
	MaxSeats         int `hcl:"max_seats,optional"`
	SmallBlind       int `hcl:"small_blind,optional"`
	BigBlind         int `hcl:"big_blind,optional"`
	ActionTimeoutSec int `hcl:"action_timeout_seconds,optional"`
	DisplayTimeSec   int `hcl:"display_time_seconds,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     3001,
			LogLevel: "info",
		},
		Room: RoomConfig{
			MaxSeats:         9,
			SmallBlind:       5,
			BigBlind:         10,
			ActionTimeoutSec: 30,
			DisplayTimeSec:   5,
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file. A missing
// file yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	defaults := DefaultServerConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Room.MaxSeats == 0 {
		config.Room.MaxSeats = defaults.Room.MaxSeats
	}
	if config.Room.SmallBlind == 0 {
		config.Room.SmallBlind = defaults.Room.SmallBlind
	}
	if config.Room.BigBlind == 0 {
		config.Room.BigBlind = defaults.Room.BigBlind
	}
	if config.Room.ActionTimeoutSec == 0 {
		config.Room.ActionTimeoutSec = defaults.Room.ActionTimeoutSec
	}
	if config.Room.DisplayTimeSec == 0 {
		config.Room.DisplayTimeSec = defaults.Room.DisplayTimeSec
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Room.MaxSeats < 2 || c.Room.MaxSeats > 10 {
		return fmt.Errorf("max seats must be between 2 and 10, got %d", c.Room.MaxSeats)
	}
	if c.Room.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if c.Room.BigBlind <= c.Room.SmallBlind {
		return fmt.Errorf("big blind must be greater than small blind")
	}
	if c.Room.ActionTimeoutSec <= 0 {
		return fmt.Errorf("action timeout must be positive")
	}
	if c.Room.DisplayTimeSec <= 0 {
		return fmt.Errorf("display time must be positive")
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// ActionTimeout returns the per-turn budget as a duration.
func (c *RoomConfig) ActionTimeout() time.Duration {
	return time.Duration(c.ActionTimeoutSec) * time.Second
}

// DisplayTime returns the post-hand display budget as a duration.
func (c *RoomConfig) DisplayTime() time.Duration {
	return time.Duration(c.DisplayTimeSec) * time.Second
}
