// Package config provides user configuration management for the iconn tools.
//
// This package manages a YAML file that remembers known interfaces (keyed by
// serial number) and application preferences such as the default MIDI ports,
// protocol scheme, request timeout and bridge address. Command line flags
// override every preference.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/iconn/config.yaml or $HOME/.config/iconn/config.yaml
//   - macOS: $HOME/.config/iconn/config.yaml
//   - Windows: %LOCALAPPDATA%\iconn\config.yaml
//
// ICONN_CONFIG overrides the location.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	registry.SetDeviceNickname("000000407B", "Stage rack")
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
