// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage (~/.search-pr/config.toml)
//   - Settings: the validated, typed view of that configuration
package file
