// Package app is the composition root. It loads configuration, opens the
// persisted credential store, builds the API client and session store, and
// hands them to the UI. The command layer (cli.go) exposes the same wiring
// for the non-interactive login, logout, and whoami commands.
package app
