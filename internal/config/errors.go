package config

import "errors"

// Sentinel error kinds for this package. Callers match them with errors.Is.
var (
	ErrLoadConfig    = errors.New("load config failed")
	ErrInvalidConfig = errors.New("invalid config")
)
