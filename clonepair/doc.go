// Package clonepair joins UMI links with the per-chain annotation tables
// produced by an external clone assembler.
//
// Each annotation row echoes the header of the read it was computed from; the
// base read ID recovered from that header is the join key. Rows whose chain
// label disagrees with the table they were read from are cross-chain
// mis-annotations and are dropped before joining.
package clonepair
