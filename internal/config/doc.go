// Package config loads and merges the application configuration from
// environment variables, command-line flags, an optional JSON file, and
// built-in defaults. Earlier sources win for non-zero fields; the merged
// result is validated before use.
package config
