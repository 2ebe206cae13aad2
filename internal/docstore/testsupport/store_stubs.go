// Package testsupport provides store doubles shared by command tests.
package testsupport

import (
	"context"

	"github.com/temirov/firestore_scripts/internal/docstore"
)

// FailureKey identifies an operation on a collection, optionally narrowed to one document.
type FailureKey struct {
	Operation  docstore.OperationName
	Collection string
	DocumentID string
}

// RecordedCall captures a store invocation for assertions.
type RecordedCall struct {
	Operation  docstore.OperationName
	Collection string
	DocumentID string
}

// StoreStub wraps a store, records calls, and injects configured failures.
// A failure keyed without a document id applies to every document of the collection.
type StoreStub struct {
	docstore.Store
	Failures    map[FailureKey]error
	CommitFails []error
	Calls       []RecordedCall
	Closed      bool
	commits     int
}

// NewStoreStub wraps a memory store labeled label.
func NewStoreStub(label string) (*StoreStub, *docstore.MemoryStore) {
	memoryStore := docstore.NewMemoryStore(label, nil)
	return &StoreStub{Store: memoryStore, Failures: map[FailureKey]error{}}, memoryStore
}

func (stub *StoreStub) failure(operation docstore.OperationName, collection string, documentID string) error {
	stub.Calls = append(stub.Calls, RecordedCall{Operation: operation, Collection: collection, DocumentID: documentID})
	if configuredError, exists := stub.Failures[FailureKey{Operation: operation, Collection: collection, DocumentID: documentID}]; exists {
		return configuredError
	}
	if configuredError, exists := stub.Failures[FailureKey{Operation: operation, Collection: collection}]; exists {
		return configuredError
	}
	return nil
}

// Collection records the call and delegates unless a failure is configured.
func (stub *StoreStub) Collection(executionContext context.Context, collection string) ([]docstore.Document, error) {
	if configuredError := stub.failure(docstore.OperationCollection, collection, ""); configuredError != nil {
		return nil, configuredError
	}
	return stub.Store.Collection(executionContext, collection)
}

// QueryEquals records the call and delegates unless a failure is configured.
func (stub *StoreStub) QueryEquals(executionContext context.Context, collection string, field string, value any) ([]docstore.Document, error) {
	if configuredError := stub.failure(docstore.OperationQueryEquals, collection, ""); configuredError != nil {
		return nil, configuredError
	}
	return stub.Store.QueryEquals(executionContext, collection, field, value)
}

// Document records the call and delegates unless a failure is configured.
func (stub *StoreStub) Document(executionContext context.Context, collection string, documentID string) (docstore.Document, bool, error) {
	if configuredError := stub.failure(docstore.OperationDocument, collection, documentID); configuredError != nil {
		return docstore.Document{}, false, configuredError
	}
	return stub.Store.Document(executionContext, collection, documentID)
}

// Upsert records the call and delegates unless a failure is configured.
func (stub *StoreStub) Upsert(executionContext context.Context, collection string, documentID string, fields docstore.Fields) error {
	if configuredError := stub.failure(docstore.OperationUpsert, collection, documentID); configuredError != nil {
		return configuredError
	}
	return stub.Store.Upsert(executionContext, collection, documentID, fields)
}

// Update records the call and delegates unless a failure is configured.
func (stub *StoreStub) Update(executionContext context.Context, collection string, documentID string, fields docstore.Fields) error {
	if configuredError := stub.failure(docstore.OperationUpdate, collection, documentID); configuredError != nil {
		return configuredError
	}
	return stub.Store.Update(executionContext, collection, documentID, fields)
}

// NewBatch returns a batch whose commits consume CommitFails in order.
func (stub *StoreStub) NewBatch() docstore.Batch {
	return &batchStub{owner: stub, Batch: stub.Store.NewBatch()}
}

// Close marks the stub closed and delegates.
func (stub *StoreStub) Close(executionContext context.Context) error {
	stub.Closed = true
	return stub.Store.Close(executionContext)
}

// CallCount counts recorded calls of operation.
func (stub *StoreStub) CallCount(operation docstore.OperationName) int {
	count := 0
	for _, call := range stub.Calls {
		if call.Operation == operation {
			count++
		}
	}
	return count
}

type batchStub struct {
	docstore.Batch
	owner *StoreStub
}

func (batch *batchStub) Commit(executionContext context.Context) error {
	commitIndex := batch.owner.commits
	batch.owner.commits++
	batch.owner.Calls = append(batch.owner.Calls, RecordedCall{Operation: docstore.OperationCommitBatch})
	if commitIndex < len(batch.owner.CommitFails) && batch.owner.CommitFails[commitIndex] != nil {
		return batch.owner.CommitFails[commitIndex]
	}
	return batch.Batch.Commit(executionContext)
}

// OpenerStub returns stores by database label and records the configurations it received.
type OpenerStub struct {
	Stores         map[string]docstore.Store
	Errors         map[string]error
	Configurations []docstore.InstanceConfiguration
}

// Open satisfies docstore.Opener.
func (opener *OpenerStub) Open(_ context.Context, configuration docstore.InstanceConfiguration) (docstore.Store, error) {
	opener.Configurations = append(opener.Configurations, configuration)
	if openError, exists := opener.Errors[configuration.Label]; exists {
		return nil, openError
	}
	return opener.Stores[configuration.Label], nil
}
