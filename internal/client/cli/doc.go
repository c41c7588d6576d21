// Package cli provides the interactive notes command-line client.
//
// It wires configuration, the local credential database, the API client and
// the note services into a REPL. Typical flow: restore the previous session
// (or log in), browse notes by category and open one in the editor, where
// changes are saved in the background a moment after typing stops.
//
// Key features:
//   - Register / Login / Logout
//   - List notes (optionally by category), per-category summary
//   - New / Open / Delete notes
//   - Editor with debounced autosave and save-on-close
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and runEditor for details.
package cli
