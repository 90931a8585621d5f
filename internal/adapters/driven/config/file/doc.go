// Package file provides the file-backed configuration store.
//
// ConfigStore reads TOML or YAML (picked by file extension), exposes nested
// tables as dot-notation keys and can watch the file for edits.
package file
