// Package config loads, normalizes, and validates wwtxtp configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every
// knob the CLI needs: output and log directories, generation toggles,
// filters, and pinned selector/parameter defaults.
//
// Always obtain settings through this package so downstream code
// receives sanitized paths, canonical log formats, and clear validation
// errors.
package config
