// Package config handles configuration file parsing and validation for fibctl.
//
// The configuration is a TOML file with one table per concern:
//   - [general] where the routing daemon runs, the RPC timeout and the
//     client id whose routes fibctl manages
//   - [ports] FIB agent and decision module ports
//   - [kernel] which kernel routes count as owned by the daemon
//   - [api] listen address of the diagnostics HTTP server
//   - [output] text rendering of routes
//
// Every key is optional. A missing default configuration file yields the
// built-in defaults; a file named explicitly must exist.
//
// # Example
//
//	[general]
//	host = "fd00::1"
//	timeout_ms = 2000
//
//	[kernel]
//	include_default = true
//
// Loading:
//
//	cfg, err := config.LoadConfig(config.DefaultConfigPath, false)
//	if err != nil {
//	    log.Fatalf("%v", err)
//	}
//	if err := cfg.ValidateConfig(); err != nil {
//	    log.Fatalf("%v", err)
//	}
//
// Command line flags are applied on top of the loaded Config by the caller;
// the resulting value is passed down explicitly and never stored globally.
package config
