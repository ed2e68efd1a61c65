package config

import "errors"

var (
	// ErrMissingFile is returned when no configuration path was given or the
	// path does not exist.
	ErrMissingFile = errors.New("configuration file not found")
	// ErrMalformedInput is returned when the configuration file is not valid JSON.
	ErrMalformedInput = errors.New("malformed configuration")
)
