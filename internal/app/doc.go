// Package app is the composition root for songrater.
//
// Run wires the pieces together in order:
//
//  1. config.Load reads ~/.config/songrater/config.toml, a .env file and
//     SONGRATER_* environment overrides; command-line options win over all.
//  2. logging.OpenFile opens the log file (the terminal belongs to the UI).
//  3. prefs.Load restores theme, tab and filter.
//  4. api.NewClient builds the REST client.
//  5. Every collection is preloaded concurrently into a shared state.Store,
//     giving up after a short bound so a hung API never delays the UI.
//     Preload failures are not fatal; the lists show them and retry.
//  6. StartPoller keeps the store fresh when poll_interval is set, backing
//     off exponentially while the API is failing.
//  7. ui.Run blocks until the user quits or the context is cancelled.
//
// Fatal errors are limited to startup: an unreadable config, an invalid API
// URL or a log file that cannot be opened.
package app
