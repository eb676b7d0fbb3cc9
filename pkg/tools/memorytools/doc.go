// Package memorytools exposes the memory store as MCP tools.
//
// Tool Overview:
//
// broca_remember: Store a knowledge entry (fact, decision, observation, error, procedure)
//
// broca_recall: Rank knowledge entries against a query
//
// broca_search: Substring search over entry text, or over tags
//
// broca_show: Return the heading and body of one entry
//
// broca_journal: Record an iteration summary
//
// broca_relate: Append a typed relation from one entry to another
//
// broca_supersede: Mark an entry as replaced by a newer one
//
// broca_update_confidence: Set the confidence of an entry
//
// broca_stats: Summarize the store
//
// broca_index: Regenerate index.yml
//
// Every tool has a Definition for registration and a Handle that answers a
// call with a text result. Store errors become error results rather than
// protocol errors so the calling model can read and correct them.
package memorytools
