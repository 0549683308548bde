// Package confloader loads server configuration.
//
// Sources merge in priority order: struct defaults, then an optional
// YAML file, then TOKENSTORE_-prefixed environment variables. A
// fsnotify-based watcher reloads the file at runtime so operators can
// flip the log level without a restart.
package confloader
