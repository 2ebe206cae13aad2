package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	mongoIdentifierFieldConstant     = "_id"
	mongoSetOperatorConstant         = "$set"
	mongoCurrentDateOperatorConstant = "$currentDate"
	mongoAscendingSortConstant       = 1
)

// MongoStore stores each document as a MongoDB document whose _id is the document identifier.
type MongoStore struct {
	label    string
	client   *mongo.Client
	database *mongo.Database
	clock    func() time.Time
}

func openMongo(executionContext context.Context, probeContext context.Context, configuration InstanceConfiguration) (*MongoStore, error) {
	client, connectError := mongo.Connect(executionContext, options.Client().ApplyURI(configuration.MongoDBURI))
	if connectError != nil {
		return nil, connectError
	}

	if pingError := client.Ping(probeContext, readpref.Primary()); pingError != nil {
		_ = client.Disconnect(executionContext)
		return nil, pingError
	}

	return &MongoStore{
		label:    configuration.Label,
		client:   client,
		database: client.Database(configuration.DatabaseName),
		clock:    time.Now,
	}, nil
}

// Label names the instance.
func (store *MongoStore) Label() string {
	return store.label
}

// Collection fetches every document of the collection ordered by _id.
func (store *MongoStore) Collection(executionContext context.Context, collectionName string) ([]Document, error) {
	documents, findError := store.find(executionContext, collectionName, bson.D{})
	if findError != nil {
		return nil, OperationError{Operation: OperationCollection, Target: collectionName, Cause: findError}
	}
	return documents, nil
}

// QueryEquals runs a single-field equality query.
func (store *MongoStore) QueryEquals(executionContext context.Context, collectionName string, fieldName string, value any) ([]Document, error) {
	filter := bson.D{{Key: fieldName, Value: store.valueToMongo(value)}}
	documents, findError := store.find(executionContext, collectionName, filter)
	if findError != nil {
		return nil, OperationError{Operation: OperationQueryEquals, Target: collectionName, Cause: findError}
	}
	return documents, nil
}

// Document fetches one document by _id.
func (store *MongoStore) Document(executionContext context.Context, collectionName string, documentID string) (Document, bool, error) {
	var raw bson.M
	decodeError := store.database.Collection(collectionName).FindOne(executionContext, identifierFilter(documentID)).Decode(&raw)
	if errors.Is(decodeError, mongo.ErrNoDocuments) {
		return Document{}, false, nil
	}
	if decodeError != nil {
		return Document{}, false, OperationError{Operation: OperationDocument, Target: documentTarget(collectionName, documentID), Cause: decodeError}
	}
	return documentFromMongo(raw), true, nil
}

// Upsert replaces the document, creating it when absent.
func (store *MongoStore) Upsert(executionContext context.Context, collectionName string, documentID string, fields Fields) error {
	replacement := store.replacementDocument(documentID, fields)
	_, replaceError := store.database.Collection(collectionName).ReplaceOne(
		executionContext,
		identifierFilter(documentID),
		replacement,
		options.Replace().SetUpsert(true),
	)
	if replaceError != nil {
		return OperationError{Operation: OperationUpsert, Target: documentTarget(collectionName, documentID), Cause: replaceError}
	}
	return nil
}

// Update merges fields into an existing document.
func (store *MongoStore) Update(executionContext context.Context, collectionName string, documentID string, fields Fields) error {
	if updateError := store.updateOne(executionContext, collectionName, documentID, fields); updateError != nil {
		return OperationError{Operation: OperationUpdate, Target: documentTarget(collectionName, documentID), Cause: updateError}
	}
	return nil
}

// NewBatch begins a batch committed inside a multi-document transaction; the deployment must be a replica set.
func (store *MongoStore) NewBatch() Batch {
	return &mongoBatch{store: store}
}

// Close disconnects the client.
func (store *MongoStore) Close(executionContext context.Context) error {
	return store.client.Disconnect(executionContext)
}

func (store *MongoStore) find(executionContext context.Context, collectionName string, filter bson.D) ([]Document, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: mongoIdentifierFieldConstant, Value: mongoAscendingSortConstant}})
	cursor, findError := store.database.Collection(collectionName).Find(executionContext, filter, findOptions)
	if findError != nil {
		return nil, findError
	}
	defer cursor.Close(executionContext)

	var rawDocuments []bson.M
	if decodeError := cursor.All(executionContext, &rawDocuments); decodeError != nil {
		return nil, decodeError
	}

	documents := make([]Document, 0, len(rawDocuments))
	for _, raw := range rawDocuments {
		documents = append(documents, documentFromMongo(raw))
	}
	return documents, nil
}

func (store *MongoStore) updateOne(executionContext context.Context, collectionName string, documentID string, fields Fields) error {
	result, updateError := store.database.Collection(collectionName).UpdateOne(executionContext, identifierFilter(documentID), store.updateDocument(fields))
	if updateError != nil {
		return updateError
	}
	if result.MatchedCount == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (store *MongoStore) replacementDocument(documentID string, fields Fields) bson.M {
	resolved, _ := resolveServerTimestamps(fields.Clone(), store.clock().UTC()).(Fields)
	replacement := make(bson.M, len(resolved)+1)
	for fieldName, fieldValue := range resolved {
		if fieldName == mongoIdentifierFieldConstant {
			continue
		}
		replacement[fieldName] = store.valueToMongo(fieldValue)
	}
	replacement[mongoIdentifierFieldConstant] = documentID
	return replacement
}

// updateDocument splits fields into $set assignments and $currentDate stamps for ServerTimestamp sentinels.
func (store *MongoStore) updateDocument(fields Fields) bson.D {
	setAssignments := bson.M{}
	currentDateAssignments := bson.M{}
	for fieldName, fieldValue := range fields {
		if fieldValue == ServerTimestamp {
			currentDateAssignments[fieldName] = true
			continue
		}
		setAssignments[fieldName] = store.valueToMongo(fieldValue)
	}

	update := bson.D{}
	if len(setAssignments) > 0 {
		update = append(update, bson.E{Key: mongoSetOperatorConstant, Value: setAssignments})
	}
	if len(currentDateAssignments) > 0 {
		update = append(update, bson.E{Key: mongoCurrentDateOperatorConstant, Value: currentDateAssignments})
	}
	return update
}

func (store *MongoStore) valueToMongo(value any) any {
	switch typedValue := value.(type) {
	case sentinelValue:
		if typedValue == ServerTimestamp {
			return store.clock().UTC()
		}
		return value
	case Reference:
		return typedValue.Path
	case Fields:
		converted := make(bson.M, len(typedValue))
		for fieldName, fieldValue := range typedValue {
			converted[fieldName] = store.valueToMongo(fieldValue)
		}
		return converted
	case map[string]any:
		return store.valueToMongo(Fields(typedValue))
	case []any:
		converted := make(bson.A, len(typedValue))
		for index := range typedValue {
			converted[index] = store.valueToMongo(typedValue[index])
		}
		return converted
	default:
		return value
	}
}

func identifierFilter(documentID string) bson.D {
	return bson.D{{Key: mongoIdentifierFieldConstant, Value: documentID}}
}

func documentFromMongo(raw bson.M) Document {
	fields := make(Fields, len(raw))
	for fieldName, fieldValue := range raw {
		if fieldName == mongoIdentifierFieldConstant {
			continue
		}
		fields[fieldName] = valueFromMongo(fieldValue)
	}
	return Document{ID: identifierFromMongo(raw[mongoIdentifierFieldConstant]), Fields: fields}
}

func identifierFromMongo(identifier any) string {
	switch typedIdentifier := identifier.(type) {
	case string:
		return typedIdentifier
	case primitive.ObjectID:
		return typedIdentifier.Hex()
	case nil:
		return ""
	default:
		return fmt.Sprint(typedIdentifier)
	}
}

func valueFromMongo(value any) any {
	switch typedValue := value.(type) {
	case primitive.DateTime:
		return typedValue.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(typedValue.T), 0).UTC()
	case primitive.ObjectID:
		return typedValue.Hex()
	case primitive.M:
		converted := make(map[string]any, len(typedValue))
		for fieldName, fieldValue := range typedValue {
			converted[fieldName] = valueFromMongo(fieldValue)
		}
		return converted
	case map[string]any:
		converted := make(map[string]any, len(typedValue))
		for fieldName, fieldValue := range typedValue {
			converted[fieldName] = valueFromMongo(fieldValue)
		}
		return converted
	case primitive.D:
		converted := make(map[string]any, len(typedValue))
		for _, element := range typedValue {
			converted[element.Key] = valueFromMongo(element.Value)
		}
		return converted
	case primitive.A:
		converted := make([]any, len(typedValue))
		for index := range typedValue {
			converted[index] = valueFromMongo(typedValue[index])
		}
		return converted
	default:
		return value
	}
}

type mongoBatch struct {
	store   *MongoStore
	updates stagedUpdates
}

func (batch *mongoBatch) Update(collectionName string, documentID string, fields Fields) {
	batch.updates.stage(collectionName, documentID, fields)
}

func (batch *mongoBatch) Len() int {
	return len(batch.updates)
}

// Commit applies the staged updates inside one transaction; a missing document aborts all of them.
func (batch *mongoBatch) Commit(executionContext context.Context) error {
	if len(batch.updates) == 0 {
		return nil
	}

	session, sessionError := batch.store.client.StartSession()
	if sessionError != nil {
		return OperationError{Operation: OperationCommitBatch, Target: batch.store.label, Cause: sessionError}
	}
	defer session.EndSession(executionContext)

	_, transactionError := session.WithTransaction(executionContext, func(sessionContext mongo.SessionContext) (interface{}, error) {
		for _, update := range batch.updates {
			if updateError := batch.store.updateOne(sessionContext, update.collectionName, update.documentID, update.fields); updateError != nil {
				return nil, fmt.Errorf("%s: %w", documentTarget(update.collectionName, update.documentID), updateError)
			}
		}
		return nil, nil
	})
	if transactionError != nil {
		return OperationError{Operation: OperationCommitBatch, Target: batch.store.label, Cause: transactionError}
	}
	return nil
}
