// Package cli constructs the firestore-scripts command-line interface. It wires
// the Cobra command hierarchy to the layered configuration loader, the database
// catalog, and the structured logger shared by every maintenance command.
package cli
