// Package art implements an Adaptive Radix Tree (ART): an in-memory ordered
// associative index that maps variable-length byte-string keys to
// byte-string values (the tree stores its own copies of both), adapting its per-node fan-out to the branching factor
// actually observed at each depth.
//
// The design follows Leis, Kemper & Neumann, "The Adaptive Radix Tree: ARTful
// Indexing for Main-Memory Databases" (https://db.in.tum.de/~leis/papers/ART.pdf).
// It is single-threaded: callers must serialize writers against readers and
// against each other themselves.
package art
