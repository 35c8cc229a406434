// Package config reads the process configuration from the environment once and
// provides factories for database connections, the store and the logger.
//
// All settings are plain environment variables (see Load). The only file ever read is the
// optional yaml sources manifest named by SEED_SOURCES_FILE.
package config
