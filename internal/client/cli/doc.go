// Package cli provides the interactive macrobook command-line client.
//
// It wires configuration, the persisted token, the API client, the query
// cache and the domain services, and runs a REPL whose commands are the
// views of the application: the welcome screen, sign up and sign in, the
// user's ingredients and recipes, the global catalog and the debounced
// ingredient search.
//
// The prompt shows the current location and the signed-in user. Views move
// the location the same way the services do after a successful write, so
// "back" returns to the previous view.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
