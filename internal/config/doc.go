// Package config provides the configuration for crawldigest: the values
// set on the command line, the optional YAML configuration file and the
// XDG directories used for persistent data.
package config
