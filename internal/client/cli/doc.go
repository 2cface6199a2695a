// Package cli provides the interactive timeline command-line client.
//
// It wires configuration, the local database, the gateway client and the
// application services into a REPL that keeps working offline. Typical flow:
// prompt for credentials, start a background connectivity watcher, and
// execute user commands.
//
// Key features:
//   - Register, Login / Logout (online with offline fallback)
//   - List / Show / Delete milestones
//   - Add / Edit milestones through the step-by-step composer
//
// While online with a session the timeline lives on the gateway; otherwise it
// is kept in the local profile slot. The REPL is started via App.Run(ctx),
// which blocks until the user exits.
package cli
