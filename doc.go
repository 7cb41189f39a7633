// Package utils shared helpers for shamir-recovery
//
// # Modules
//
// Recover a Shamir-shared secret from a share set that contains at most
// one corrupted share:
//
//   - `crypto/threshold/shamir`: share decoding, exact Lagrange
//     interpolation and the consistency search
//   - `cmd`: command line entry, reads shares from stdin or files
//   - `config`: settings from flags and yaml files
//   - `json`: json codec that tolerates comments
//   - `log`: enhanced zap logger
//   - `utils`: some useful tools
package utils
