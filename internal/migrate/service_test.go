package migrate_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/firestore_scripts/internal/admins"
	"github.com/temirov/firestore_scripts/internal/docstore"
	"github.com/temirov/firestore_scripts/internal/docstore/testsupport"
	"github.com/temirov/firestore_scripts/internal/migrate"
)

const (
	testSourceLabelConstant        = "production"
	testDestinationLabelConstant   = "development"
	testProgramsCollectionConstant = "programs"
	testBannersCollectionConstant  = "program_banners"
	testConsultantsCollection      = "consultants"
	testAdminEmailConstant         = "ganapathiraj@gmail.com"
	progressMessageConstant        = "Migration progress"
	collectionMigratedMessage      = "Collection migrated"
	collectionFailedMessage        = "Collection migration failed"
	adminSeedFailedMessage         = "Admin seed failed"
)

type recordingAdminWriter struct {
	failure     error
	collections []string
	records     []admins.Record
}

func (writer *recordingAdminWriter) SeedRecord(_ context.Context, collection string, record admins.Record) error {
	writer.collections = append(writer.collections, collection)
	writer.records = append(writer.records, record)
	return writer.failure
}

func seedDocuments(memoryStore *docstore.MemoryStore, collection string, count int) {
	for index := 1; index <= count; index++ {
		memoryStore.Seed(collection, docstore.Document{
			ID:     fmt.Sprintf("%s-%03d", collection, index),
			Fields: docstore.Fields{"title": fmt.Sprintf("Document %d", index), "order": int64(index)},
		})
	}
}

func newTestService(testInstance *testing.T, source docstore.Store, destination docstore.Store, adminWriter migrate.AdminWriter, logger *zap.Logger) *migrate.Service {
	testInstance.Helper()
	service, serviceError := migrate.NewService(migrate.ServiceDependencies{
		Logger:      logger,
		Source:      source,
		Destination: destination,
		AdminWriter: adminWriter,
	})
	require.NoError(testInstance, serviceError)
	return service
}

func countsForMessage(observedLogs *observer.ObservedLogs, message string, collection string) []int64 {
	var counts []int64
	for _, entry := range observedLogs.FilterMessage(message).All() {
		contextValues := entry.ContextMap()
		if contextValues["collection"] != collection {
			continue
		}
		counts = append(counts, contextValues["count"].(int64))
	}
	return counts
}

func TestServiceLogsProgressEveryInterval(testInstance *testing.T) {
	sourceStub, sourceMemory := testsupport.NewStoreStub(testSourceLabelConstant)
	destinationStub, destinationMemory := testsupport.NewStoreStub(testDestinationLabelConstant)
	seedDocuments(sourceMemory, testProgramsCollectionConstant, 23)
	logCore, observedLogs := observer.New(zap.InfoLevel)

	service := newTestService(testInstance, sourceStub, destinationStub, &recordingAdminWriter{}, zap.New(logCore))
	summary, executionError := service.Execute(context.Background(), migrate.MigrationOptions{
		Collections:      []string{testProgramsCollectionConstant},
		ProgressInterval: 10,
		Admin:            admins.Record{Email: testAdminEmailConstant, Role: "SUPER_ADMIN"},
	})
	require.NoError(testInstance, executionError)

	require.Equal(testInstance, []int64{10, 20}, countsForMessage(observedLogs, progressMessageConstant, testProgramsCollectionConstant))
	require.Equal(testInstance, []int64{23}, countsForMessage(observedLogs, collectionMigratedMessage, testProgramsCollectionConstant))
	require.Equal(testInstance, []int64{23}, countsForMessage(observedLogs, "Documents found", testProgramsCollectionConstant))
	require.Equal(testInstance, 23, summary.MigratedDocuments())
	require.Equal(testInstance, 1, sourceStub.CallCount(docstore.OperationCollection))

	migrated, readError := destinationMemory.Collection(context.Background(), testProgramsCollectionConstant)
	require.NoError(testInstance, readError)
	require.Len(testInstance, migrated, 23)
}

func TestServicePreservesIdentifiersAndFields(testInstance *testing.T) {
	sourceStub, sourceMemory := testsupport.NewStoreStub(testSourceLabelConstant)
	destinationStub, destinationMemory := testsupport.NewStoreStub(testDestinationLabelConstant)

	createdAt := time.Date(2023, time.November, 5, 6, 0, 0, 0, time.UTC)
	originalFields := docstore.Fields{
		"title":     "Sath Dharisanam",
		"createdAt": createdAt,
		"speakers":  []any{"A", "B"},
		"venue":     map[string]any{"city": "Chennai", "capacity": int64(120)},
		"type":      docstore.Reference{Path: "programTypes/retreat"},
		"archived":  false,
	}
	sourceMemory.Seed(testProgramsCollectionConstant, docstore.Document{ID: "p1", Fields: originalFields})
	destinationMemory.Seed(testProgramsCollectionConstant, docstore.Document{ID: "p1", Fields: docstore.Fields{"stale": true}})

	service := newTestService(testInstance, sourceStub, destinationStub, &recordingAdminWriter{}, zap.NewNop())
	_, executionError := service.Execute(context.Background(), migrate.MigrationOptions{Collections: []string{testProgramsCollectionConstant}})
	require.NoError(testInstance, executionError)

	migrated, found, readError := destinationMemory.Document(context.Background(), testProgramsCollectionConstant, "p1")
	require.NoError(testInstance, readError)
	require.True(testInstance, found)
	require.Equal(testInstance, originalFields, migrated.Fields)
}

func TestServiceRerunIsIdempotent(testInstance *testing.T) {
	sourceStub, sourceMemory := testsupport.NewStoreStub(testSourceLabelConstant)
	destinationStub, destinationMemory := testsupport.NewStoreStub(testDestinationLabelConstant)
	seedDocuments(sourceMemory, testProgramsCollectionConstant, 5)

	service := newTestService(testInstance, sourceStub, destinationStub, &recordingAdminWriter{}, zap.NewNop())
	options := migrate.MigrationOptions{Collections: []string{testProgramsCollectionConstant}}

	_, firstError := service.Execute(context.Background(), options)
	require.NoError(testInstance, firstError)
	firstState, _ := destinationMemory.Collection(context.Background(), testProgramsCollectionConstant)

	_, secondError := service.Execute(context.Background(), options)
	require.NoError(testInstance, secondError)
	secondState, _ := destinationMemory.Collection(context.Background(), testProgramsCollectionConstant)

	require.Equal(testInstance, firstState, secondState)
	require.Len(testInstance, secondState, 5)
}

func TestServiceContinuesAfterCollectionFailures(testInstance *testing.T) {
	testCases := []struct {
		name        string
		failureKey  testsupport.FailureKey
		failOnWrite bool
	}{
		{
			name:       "read_failure",
			failureKey: testsupport.FailureKey{Operation: docstore.OperationCollection, Collection: testBannersCollectionConstant},
		},
		{
			name:        "write_failure",
			failureKey:  testsupport.FailureKey{Operation: docstore.OperationUpsert, Collection: testBannersCollectionConstant, DocumentID: "program_banners-002"},
			failOnWrite: true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(testInstance *testing.T) {
			sourceStub, sourceMemory := testsupport.NewStoreStub(testSourceLabelConstant)
			destinationStub, destinationMemory := testsupport.NewStoreStub(testDestinationLabelConstant)
			seedDocuments(sourceMemory, testProgramsCollectionConstant, 2)
			seedDocuments(sourceMemory, testBannersCollectionConstant, 3)
			seedDocuments(sourceMemory, testConsultantsCollection, 4)

			injectedFailure := errors.New("permission denied")
			if testCase.failOnWrite {
				destinationStub.Failures[testCase.failureKey] = injectedFailure
			} else {
				sourceStub.Failures[testCase.failureKey] = injectedFailure
			}

			logCore, observedLogs := observer.New(zap.InfoLevel)
			adminWriter := &recordingAdminWriter{}
			service := newTestService(testInstance, sourceStub, destinationStub, adminWriter, zap.New(logCore))

			summary, executionError := service.Execute(context.Background(), migrate.MigrationOptions{
				Collections: []string{testProgramsCollectionConstant, testBannersCollectionConstant, testConsultantsCollection},
				Admin:       admins.Record{Email: testAdminEmailConstant, Role: "SUPER_ADMIN"},
			})
			require.NoError(testInstance, executionError)
			require.Equal(testInstance, []string{testBannersCollectionConstant}, summary.FailedCollections())
			require.ErrorIs(testInstance, summary.Collections[1].Failure, injectedFailure)
			require.True(testInstance, summary.AdminSeeded)
			require.Len(testInstance, adminWriter.records, 1)

			failureEntries := observedLogs.FilterMessage(collectionFailedMessage).All()
			require.Len(testInstance, failureEntries, 1)
			require.Equal(testInstance, testBannersCollectionConstant, failureEntries[0].ContextMap()["collection"])

			consultants, _ := destinationMemory.Collection(context.Background(), testConsultantsCollection)
			require.Len(testInstance, consultants, 4)

			banners, _ := destinationMemory.Collection(context.Background(), testBannersCollectionConstant)
			if testCase.failOnWrite {
				require.Len(testInstance, banners, 1)
				require.Equal(testInstance, 1, summary.Collections[1].Migrated)
			} else {
				require.Empty(testInstance, banners)
			}
		})
	}
}

func TestServiceRecordsAdminFailureWithoutError(testInstance *testing.T) {
	sourceStub, _ := testsupport.NewStoreStub(testSourceLabelConstant)
	destinationStub, _ := testsupport.NewStoreStub(testDestinationLabelConstant)
	adminFailure := errors.New("quota exceeded")
	logCore, observedLogs := observer.New(zap.InfoLevel)

	service := newTestService(testInstance, sourceStub, destinationStub, &recordingAdminWriter{failure: adminFailure}, zap.New(logCore))
	summary, executionError := service.Execute(context.Background(), migrate.MigrationOptions{
		Collections:     []string{testProgramsCollectionConstant},
		AdminCollection: "admins",
		Admin:           admins.Record{Email: testAdminEmailConstant, Role: "SUPER_ADMIN"},
	})
	require.NoError(testInstance, executionError)
	require.False(testInstance, summary.AdminSeeded)
	require.ErrorIs(testInstance, summary.AdminError, adminFailure)
	require.Equal(testInstance, 1, observedLogs.FilterMessage(adminSeedFailedMessage).Len())
	require.Equal(testInstance, []int64{0}, countsForMessage(observedLogs, collectionMigratedMessage, testProgramsCollectionConstant))
}

func TestServiceStopsOnCanceledContext(testInstance *testing.T) {
	sourceStub, sourceMemory := testsupport.NewStoreStub(testSourceLabelConstant)
	destinationStub, _ := testsupport.NewStoreStub(testDestinationLabelConstant)
	seedDocuments(sourceMemory, testProgramsCollectionConstant, 1)
	adminWriter := &recordingAdminWriter{}

	canceledContext, cancel := context.WithCancel(context.Background())
	cancel()

	service := newTestService(testInstance, sourceStub, destinationStub, adminWriter, zap.NewNop())
	_, executionError := service.Execute(canceledContext, migrate.MigrationOptions{Collections: []string{testProgramsCollectionConstant}})
	require.ErrorIs(testInstance, executionError, context.Canceled)
	require.Empty(testInstance, adminWriter.records)
	require.Zero(testInstance, sourceStub.CallCount(docstore.OperationCollection))
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	storeStub, _ := testsupport.NewStoreStub(testSourceLabelConstant)

	_, missingSource := migrate.NewService(migrate.ServiceDependencies{Destination: storeStub, AdminWriter: &recordingAdminWriter{}})
	require.Error(testInstance, missingSource)

	_, missingDestination := migrate.NewService(migrate.ServiceDependencies{Source: storeStub, AdminWriter: &recordingAdminWriter{}})
	require.Error(testInstance, missingDestination)

	_, missingAdmin := migrate.NewService(migrate.ServiceDependencies{Source: storeStub, Destination: storeStub})
	require.Error(testInstance, missingAdmin)
}
