// Package config defines the server configuration structure.
//
// Configuration is loaded by internal/infra/confloader from defaults,
// an optional YAML file and TOKENSTORE_ environment variables, then
// checked by Verify before the server starts.
package config
