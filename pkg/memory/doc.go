// Package memory is the file-resident knowledge store behind broca.
// Every entry is a Markdown file with a small line-oriented header,
// stored under <root>/knowledge or <root>/journal. The Store is the only
// type that touches the filesystem; ranking, the relation graph, the
// index and the statistics are computed from a fresh scan on every call.
package memory
