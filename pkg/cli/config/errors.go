package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound     = goerr.New("configuration file not found")
	ErrInvalidConfig      = goerr.New("invalid configuration")
	ErrInvalidRole        = goerr.New("invalid user role")
	ErrDuplicateSignature = goerr.New("duplicate signature role")
	ErrMissingText        = goerr.New("text is required")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	RoleKey       = "role"
)
