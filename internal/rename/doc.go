// Package rename rewrites book titles from a fixed transliteration table.
//
// A run first applies the configured per-document corrections unconditionally,
// then queries the filtered collection and stages a title update for every
// document whose title has a table entry that differs from the current value.
// Staged updates are committed in atomic batches no larger than the configured
// batch limit.
package rename
