// Package domain contains core concepts of the chat relay.
// This file defines the User entry and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import "strings"

// User binds one active connection to a joined identity.
// Username and Room are stored canonical: trimmed and lowercased.
// Entries are never mutated in place; a connection joins exactly once.
type User struct {
	ID       string
	Username string
	Room     string
}

// Normalize folds a user-facing identifier to its canonical form.
// Normalization happens once at the registry boundary so every
// downstream consumer can compare usernames and rooms directly.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
