// SPDX-License-Identifier: MIT

// Package ldio reads and writes the files an LDGM estimation consumes and
// produces:
//
//   - edge lists: one "i,j,weight" row per entry, 0-based node indices,
//     used for the weighted LDGM, distance graphs and the fitted precision;
//   - variant tables: delimited text with a header naming at least the
//     "rsid" column, plus optional "index" (brick) and "AF_<population>";
//   - matrices in NumPy .npy format (correlation or haplotype matrices in,
//     dense diagnostics out), through github.com/kshedden/gonpy.
//
// Readers validate structure and report ErrMalformedRow or ErrMissingColumn
// with the offending line; they do not interpret values beyond parsing.
package ldio
