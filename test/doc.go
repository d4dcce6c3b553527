// Package test provides utilities for setting up and running integration
// tests: a file-based sqlite database, a real API server, and a real API
// client wired together.
package test
