// Package utils provides shared utility functions for the sealbox application.
//
// # Terminal Utilities
//
// Functions for terminal detection and passphrase input:
//   - ReadPassphrase: hidden passphrase prompt
//   - ReadPassphraseConfirmed: double-entry prompt for new passphrases
//   - IsTerminal: checks if stdin is a terminal
//
// # String Utilities
//
// Functions for string manipulation and formatting:
//   - FormatPaths: formats file paths for human-readable output
package utils
