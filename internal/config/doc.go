// Package config loads mpconsole settings.
//
// # Resolution Order
//
//  1. Built-in defaults
//  2. TOML file (explicit path, else ~/.config/mpconsole/config.toml)
//  3. Environment variables (MPCONSOLE_*)
//
// A missing file is not an error. Empty values in the file keep the default.
// LoadEnvFile can seed the environment from a .env file before Load runs;
// variables already set in the process win over the file.
//
// # Fields
//
//	api_base      sizes backend base URL  (http://127.0.0.1:8000/sizes/)
//	poll_seconds  refresh interval        (5)
//	log_file      zap JSON log output     (~/.local/state/mpconsole/mpconsole.log)
//	log_level     debug|info|warn|error   (info)
//
// Setting MPCONSOLE_LOG_FILE to an empty string turns file logging off.
package config
