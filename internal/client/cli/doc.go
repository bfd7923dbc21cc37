// Package cli implements the nutriledger command-line client: one-shot
// commands ("nutriledger water add 250") and an interactive shell when no
// command is given. The session survives between runs in a local SQLite
// store.
package cli
