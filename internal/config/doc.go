// Package config loads the optional TOML configuration file shared by the
// subtitles commands. Command-line flags take precedence over everything
// loaded here.
package config
