// Package docstore wraps the document databases the maintenance commands talk to.
//
// It exposes a single Store interface covering full-collection reads, equality
// queries, single-document reads, upserts, partial updates, and atomic write
// batches, with Firestore, MongoDB, and in-memory backends behind it. Commands
// depend on the interface so their workflows can be exercised against the
// memory backend during testing.
package docstore
