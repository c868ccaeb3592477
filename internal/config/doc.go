// Package config loads, normalizes, and validates sift configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the pipeline and CLI need: channel endpoints, worker sizing, scoring
// parameters, dispatch retry policy, and logging output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
