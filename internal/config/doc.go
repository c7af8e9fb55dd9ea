// Package config loads and validates the environment-sourced settings
// for the server and its database connection.
package config
