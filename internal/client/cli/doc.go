// Package cli provides the interactive sessionkit command-line client.
//
// It wires configuration, the session store, the mock session service and an
// interactive REPL. Typical flow: restore a stored session if there is one,
// start the background token refresh watcher, and execute user commands.
//
// Key features:
//   - Login / Signup / Logout
//   - Whoami / Status / Token inspection
//   - Token refresh, on demand and on a ticker
//   - Password reset requests
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartTokenRefreshWatcher, and runREPL for details.
package cli
