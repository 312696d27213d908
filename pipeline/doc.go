// SPDX-License-Identifier: MIT

// Package pipeline runs an LDGM precision estimation end to end:
//
//	load → align → MAF filter + surgery → threshold → control graph →
//	penalized fit → support → PSD repair → refit → write
//
// Config is a typed YAML document (LoadConfig, DefaultConfig). Run reads the
// files it names; Solve runs the same steps on an in-memory Problem. Closure
// turns a distance-weighted brick graph into a weighted LDGM edge list.
//
// Every stage logs a one-line summary through internal/logger. Validation
// and configuration conflicts fail before any computation, and no output
// file is written unless the whole estimation succeeds.
package pipeline
