// Package engine pairs forward and reverse primers under a round's
// thresholds. It depends only on catalog, region and oligo; writers, cli and
// pipeline sit above it.
//
// Outputs that leave the process use pkg/api, not Pair.
package engine
