// Package verify prints selected documents so an operator can confirm the
// outcome of a data migration or rename.
package verify
