package docstore

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps collections in process memory. It backs dry runs and tests.
type MemoryStore struct {
	label       string
	clock       func() time.Time
	mutex       sync.Mutex
	collections map[string]map[string]Fields
}

// NewMemoryStore constructs an empty MemoryStore; a nil clock falls back to time.Now.
func NewMemoryStore(label string, clock func() time.Time) *MemoryStore {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryStore{
		label:       label,
		clock:       clock,
		collections: make(map[string]map[string]Fields),
	}
}

// Seed stores the documents verbatim, replacing existing documents with the same identifier.
func (store *MemoryStore) Seed(collectionName string, documents ...Document) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	for _, document := range documents {
		store.collectionLocked(collectionName)[document.ID] = document.Fields.Clone()
	}
}

// Label names the instance.
func (store *MemoryStore) Label() string {
	return store.label
}

// Collection returns every document of the collection ordered by identifier.
func (store *MemoryStore) Collection(_ context.Context, collectionName string) ([]Document, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	return store.sortedDocumentsLocked(collectionName, func(Fields) bool { return true }), nil
}

// QueryEquals returns the documents whose field deeply equals value, ordered by identifier.
func (store *MemoryStore) QueryEquals(_ context.Context, collectionName string, fieldName string, value any) ([]Document, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	return store.sortedDocumentsLocked(collectionName, func(fields Fields) bool {
		fieldValue, fieldExists := fields[fieldName]
		return fieldExists && reflect.DeepEqual(fieldValue, value)
	}), nil
}

// Document returns a copy of the stored document.
func (store *MemoryStore) Document(_ context.Context, collectionName string, documentID string) (Document, bool, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	fields, exists := store.collections[collectionName][documentID]
	if !exists {
		return Document{}, false, nil
	}
	return Document{ID: documentID, Fields: fields.Clone()}, true, nil
}

// Upsert replaces the stored fields.
func (store *MemoryStore) Upsert(_ context.Context, collectionName string, documentID string, fields Fields) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	store.collectionLocked(collectionName)[documentID] = store.resolveLocked(fields)
	return nil
}

// Update merges fields into an existing document.
func (store *MemoryStore) Update(_ context.Context, collectionName string, documentID string, fields Fields) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	return store.applyUpdatesLocked(stagedUpdates{{collectionName: collectionName, documentID: documentID, fields: fields}})
}

// NewBatch begins an atomic batch.
func (store *MemoryStore) NewBatch() Batch {
	return &memoryBatch{store: store}
}

// Close is a no-op for the memory backend.
func (store *MemoryStore) Close(context.Context) error {
	return nil
}

func (store *MemoryStore) applyUpdatesLocked(updates stagedUpdates) error {
	for _, update := range updates {
		if _, exists := store.collections[update.collectionName][update.documentID]; !exists {
			return OperationError{
				Operation: OperationUpdate,
				Target:    documentTarget(update.collectionName, update.documentID),
				Cause:     ErrDocumentNotFound,
			}
		}
	}

	for _, update := range updates {
		existingFields := store.collections[update.collectionName][update.documentID]
		for fieldName, fieldValue := range store.resolveLocked(update.fields) {
			existingFields[fieldName] = fieldValue
		}
	}
	return nil
}

func (store *MemoryStore) resolveLocked(fields Fields) Fields {
	writeTime := store.clock()
	resolved, _ := resolveServerTimestamps(fields.Clone(), writeTime).(Fields)
	if resolved == nil {
		resolved = Fields{}
	}
	return resolved
}

func (store *MemoryStore) collectionLocked(collectionName string) map[string]Fields {
	documents, exists := store.collections[collectionName]
	if !exists {
		documents = make(map[string]Fields)
		store.collections[collectionName] = documents
	}
	return documents
}

func (store *MemoryStore) sortedDocumentsLocked(collectionName string, include func(Fields) bool) []Document {
	documents := store.collections[collectionName]
	identifiers := make([]string, 0, len(documents))
	for documentID := range documents {
		identifiers = append(identifiers, documentID)
	}
	sort.Strings(identifiers)

	matched := make([]Document, 0, len(identifiers))
	for _, documentID := range identifiers {
		if !include(documents[documentID]) {
			continue
		}
		matched = append(matched, Document{ID: documentID, Fields: documents[documentID].Clone()})
	}
	return matched
}

type memoryBatch struct {
	store   *MemoryStore
	updates stagedUpdates
}

func (batch *memoryBatch) Update(collectionName string, documentID string, fields Fields) {
	batch.updates.stage(collectionName, documentID, fields)
}

func (batch *memoryBatch) Len() int {
	return len(batch.updates)
}

// Commit applies every staged update or none of them.
func (batch *memoryBatch) Commit(context.Context) error {
	batch.store.mutex.Lock()
	defer batch.store.mutex.Unlock()

	if applyError := batch.store.applyUpdatesLocked(batch.updates); applyError != nil {
		return OperationError{Operation: OperationCommitBatch, Target: batch.store.label, Cause: applyError}
	}
	return nil
}
