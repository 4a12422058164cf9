// Package query is a keyed cache of server data with fetch de-duplication,
// staleness, bounded retries and cancellation of in-flight fetches.
//
// Entries are addressed by Key. Every fetch records the entry generation it
// started under; CancelQueries, SetQueryData and removal move the entry to a
// new generation so a result arriving late never overwrites a newer write.
package query
