// Package migrate copies an ordered list of collections from a source database
// into a destination database, preserving document identifiers and fields, and
// then seeds the super administrator record in the destination.
//
// Failures are contained per collection: a read or write error is logged and
// the migration continues with the next collection. The admin seed runs
// regardless of collection outcomes and its failure is only logged.
package migrate
