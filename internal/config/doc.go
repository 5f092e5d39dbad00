// Package config loads, normalizes, and validates tagclean configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// TAGCLEAN_FFPROBE and TAGCLEAN_LOG_LEVEL. Unknown keys in the file are
// rejected so typos in rule or section names surface immediately.
package config
