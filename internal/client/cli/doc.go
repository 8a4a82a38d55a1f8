// Package cli provides the interactive GuildAdmin command-line client.
//
// It wires configuration, the credential store, the request pipeline, the
// session and the guild resource clients, then runs a REPL. Typical flow:
// "login" prints the authorization URL, "callback <code>" completes the
// OAuth exchange, "guilds" and "select <id>" pick the guild to administer,
// and the channel, category and role commands operate on it. A background
// watcher re-checks the session periodically.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartStatusWatcher, and runREPL for details.
package cli
