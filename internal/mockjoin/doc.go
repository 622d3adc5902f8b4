// Package mockjoin resolves the mock joiner configuration and hands it to
// the external join of per-pixel mock target and truth tables.
//
// Ownership boundary:
// - flag resolution (outdir default, overwrite aliases)
//
// - deprecation notice, primary rank only
//
// - delegation to a Joiner
//
// The join itself, and the scheduling of cooperating ranks, belong to the
// delegated implementation.
package mockjoin
