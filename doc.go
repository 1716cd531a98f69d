// Package main provides the entry point of the FitCircle API server.
// It reads etc/main.toml, opens the database, and serves the JSON API
// and the group message stream using the Fiber framework.
package main
