package docstore

import "context"

// Store is the document database handle bound to one named database instance.
type Store interface {
	// Label names the instance in logs, for example "production".
	Label() string
	// Collection fetches every document of the collection in a single call, ordered by identifier.
	Collection(executionContext context.Context, collectionName string) ([]Document, error)
	// QueryEquals returns the documents whose field equals value.
	QueryEquals(executionContext context.Context, collectionName string, fieldName string, value any) ([]Document, error)
	// Document fetches one document; a missing document reports false without an error.
	Document(executionContext context.Context, collectionName string, documentID string) (Document, bool, error)
	// Upsert creates the document or fully replaces its fields.
	Upsert(executionContext context.Context, collectionName string, documentID string, fields Fields) error
	// Update merges fields into an existing document and fails with ErrDocumentNotFound when it is absent.
	Update(executionContext context.Context, collectionName string, documentID string, fields Fields) error
	// NewBatch begins an atomic write batch.
	NewBatch() Batch
	// Close releases the underlying client.
	Close(executionContext context.Context) error
}

// Batch stages partial updates that commit together or not at all.
type Batch interface {
	Update(collectionName string, documentID string, fields Fields)
	Len() int
	Commit(executionContext context.Context) error
}

type stagedUpdate struct {
	collectionName string
	documentID     string
	fields         Fields
}

type stagedUpdates []stagedUpdate

func (updates *stagedUpdates) stage(collectionName string, documentID string, fields Fields) {
	*updates = append(*updates, stagedUpdate{
		collectionName: collectionName,
		documentID:     documentID,
		fields:         fields.Clone(),
	})
}
