// Package cli provides the interactive docproc command-line client.
//
// It wires configuration, local storage, the HTTP adapter and the stores, and
// runs a REPL whose commands play the role of pages. Typical flow: restore
// the session from disk (or prompt for credentials), start a background
// connectivity watcher, and execute user commands.
//
// Key features:
//   - Login / Register / Logout (token or legacy flow)
//   - Dashboard list with an offline cache fallback
//   - Document detail with an extracted-field edit cycle
//   - Upload from local files, S3 or GCS, with PDF validation
//   - Processing, stats, Excel export and request diagnostics
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
