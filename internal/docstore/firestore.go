package docstore

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const firestoreEqualityOperatorConstant = "=="

// FirestoreStore talks to a Cloud Firestore database.
type FirestoreStore struct {
	label  string
	client *firestore.Client
}

func openFirestore(executionContext context.Context, probeContext context.Context, configuration InstanceConfiguration) (*FirestoreStore, error) {
	clientOptions := make([]option.ClientOption, 0, 1)
	switch {
	case len(configuration.CredentialsJSON) > 0:
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(configuration.CredentialsJSON)))
	case len(configuration.CredentialsFile) > 0:
		clientOptions = append(clientOptions, option.WithCredentialsFile(configuration.CredentialsFile))
	}

	projectID := configuration.ProjectID
	if len(projectID) == 0 {
		projectID = firestore.DetectProjectID
	}
	databaseID := configuration.DatabaseID
	if len(databaseID) == 0 {
		databaseID = firestore.DefaultDatabaseID
	}

	client, clientError := firestore.NewClientWithDatabase(executionContext, projectID, databaseID, clientOptions...)
	if clientError != nil {
		return nil, clientError
	}

	// Listing one root collection forces authentication so bad credentials fail before any work starts.
	_, probeError := client.Collections(probeContext).Next()
	if probeError != nil && !errors.Is(probeError, iterator.Done) {
		_ = client.Close()
		return nil, probeError
	}

	return &FirestoreStore{label: configuration.Label, client: client}, nil
}

// Label names the instance.
func (store *FirestoreStore) Label() string {
	return store.label
}

// Collection fetches every document of the collection.
func (store *FirestoreStore) Collection(executionContext context.Context, collectionName string) ([]Document, error) {
	snapshots, fetchError := store.client.Collection(collectionName).Documents(executionContext).GetAll()
	if fetchError != nil {
		return nil, OperationError{Operation: OperationCollection, Target: collectionName, Cause: fetchError}
	}
	return documentsFromSnapshots(snapshots), nil
}

// QueryEquals runs a single-field equality query.
func (store *FirestoreStore) QueryEquals(executionContext context.Context, collectionName string, fieldName string, value any) ([]Document, error) {
	query := store.client.Collection(collectionName).WherePath(firestore.FieldPath{fieldName}, firestoreEqualityOperatorConstant, value)
	snapshots, queryError := query.Documents(executionContext).GetAll()
	if queryError != nil {
		return nil, OperationError{Operation: OperationQueryEquals, Target: collectionName, Cause: queryError}
	}
	return documentsFromSnapshots(snapshots), nil
}

// Document fetches one document by identifier.
func (store *FirestoreStore) Document(executionContext context.Context, collectionName string, documentID string) (Document, bool, error) {
	snapshot, fetchError := store.client.Collection(collectionName).Doc(documentID).Get(executionContext)
	if status.Code(fetchError) == codes.NotFound {
		return Document{}, false, nil
	}
	if fetchError != nil {
		return Document{}, false, OperationError{Operation: OperationDocument, Target: documentTarget(collectionName, documentID), Cause: fetchError}
	}
	if !snapshot.Exists() {
		return Document{}, false, nil
	}
	return Document{ID: snapshot.Ref.ID, Fields: fieldsFromFirestore(snapshot.Data())}, true, nil
}

// Upsert replaces the document with fields.
func (store *FirestoreStore) Upsert(executionContext context.Context, collectionName string, documentID string, fields Fields) error {
	documentReference := store.client.Collection(collectionName).Doc(documentID)
	if _, setError := documentReference.Set(executionContext, store.fieldsToFirestore(fields)); setError != nil {
		return OperationError{Operation: OperationUpsert, Target: documentTarget(collectionName, documentID), Cause: setError}
	}
	return nil
}

// Update merges fields into an existing document.
func (store *FirestoreStore) Update(executionContext context.Context, collectionName string, documentID string, fields Fields) error {
	documentReference := store.client.Collection(collectionName).Doc(documentID)
	if _, updateError := documentReference.Update(executionContext, store.firestoreUpdates(fields)); updateError != nil {
		return OperationError{Operation: OperationUpdate, Target: documentTarget(collectionName, documentID), Cause: translateFirestoreError(updateError)}
	}
	return nil
}

// NewBatch begins a Firestore write batch. Firestore rejects batches above 500 writes.
func (store *FirestoreStore) NewBatch() Batch {
	return &firestoreBatch{store: store}
}

// Close releases the gRPC connection.
func (store *FirestoreStore) Close(context.Context) error {
	return store.client.Close()
}

func (store *FirestoreStore) firestoreUpdates(fields Fields) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields))
	for fieldName, fieldValue := range fields {
		updates = append(updates, firestore.Update{
			FieldPath: firestore.FieldPath{fieldName},
			Value:     store.valueToFirestore(fieldValue),
		})
	}
	return updates
}

func (store *FirestoreStore) fieldsToFirestore(fields Fields) map[string]any {
	converted := make(map[string]any, len(fields))
	for fieldName, fieldValue := range fields {
		converted[fieldName] = store.valueToFirestore(fieldValue)
	}
	return converted
}

func (store *FirestoreStore) valueToFirestore(value any) any {
	switch typedValue := value.(type) {
	case sentinelValue:
		if typedValue == ServerTimestamp {
			return firestore.ServerTimestamp
		}
		return value
	case Reference:
		return store.client.Doc(typedValue.Path)
	case Fields:
		return store.fieldsToFirestore(typedValue)
	case map[string]any:
		return store.fieldsToFirestore(Fields(typedValue))
	case []any:
		converted := make([]any, len(typedValue))
		for index := range typedValue {
			converted[index] = store.valueToFirestore(typedValue[index])
		}
		return converted
	default:
		return value
	}
}

func documentsFromSnapshots(snapshots []*firestore.DocumentSnapshot) []Document {
	documents := make([]Document, 0, len(snapshots))
	for _, snapshot := range snapshots {
		documents = append(documents, Document{ID: snapshot.Ref.ID, Fields: fieldsFromFirestore(snapshot.Data())})
	}
	return documents
}

func fieldsFromFirestore(data map[string]any) Fields {
	converted := make(Fields, len(data))
	for fieldName, fieldValue := range data {
		converted[fieldName] = valueFromFirestore(fieldValue)
	}
	return converted
}

func valueFromFirestore(value any) any {
	switch typedValue := value.(type) {
	case *firestore.DocumentRef:
		if typedValue == nil {
			return nil
		}
		return Reference{Path: relativeReferencePath(typedValue.Path)}
	case map[string]any:
		return map[string]any(fieldsFromFirestore(typedValue))
	case []any:
		converted := make([]any, len(typedValue))
		for index := range typedValue {
			converted[index] = valueFromFirestore(typedValue[index])
		}
		return converted
	case time.Time:
		return typedValue.UTC()
	default:
		return value
	}
}

func translateFirestoreError(firestoreError error) error {
	if status.Code(firestoreError) == codes.NotFound {
		return errors.Join(ErrDocumentNotFound, firestoreError)
	}
	return firestoreError
}

type firestoreBatch struct {
	store   *FirestoreStore
	updates stagedUpdates
}

func (batch *firestoreBatch) Update(collectionName string, documentID string, fields Fields) {
	batch.updates.stage(collectionName, documentID, fields)
}

func (batch *firestoreBatch) Len() int {
	return len(batch.updates)
}

// Commit sends the staged updates as one Firestore write batch.
func (batch *firestoreBatch) Commit(executionContext context.Context) error {
	if len(batch.updates) == 0 {
		return nil
	}

	writeBatch := batch.store.client.Batch()
	for _, update := range batch.updates {
		documentReference := batch.store.client.Collection(update.collectionName).Doc(update.documentID)
		writeBatch.Update(documentReference, batch.store.firestoreUpdates(update.fields))
	}

	if _, commitError := writeBatch.Commit(executionContext); commitError != nil {
		return OperationError{Operation: OperationCommitBatch, Target: batch.store.label, Cause: translateFirestoreError(commitError)}
	}
	return nil
}
