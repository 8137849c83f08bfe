// Package workflows implements sealbox's operations as reusable functions
// decoupled from the CLI layer.
//
// Each workflow takes an Options struct, performs the operation, and returns
// a Result struct with details, so the CLI commands handle only presentation.
// Workflows never print or terminate the process; every failure is returned
// as an error that wraps one of the sentinels in internal/errors.
//
// The encrypt and decrypt pipelines are strictly sequential and buffer the
// complete artifact in memory: output is written via a temp-file rename only
// after the whole envelope (or plaintext) exists, so an operation that fails
// partway through never leaves a truncated file behind. For very large files
// this trades memory proportional to file size for atomicity.
package workflows
