package admins_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/firestore_scripts/internal/admins"
	"github.com/temirov/firestore_scripts/internal/docstore"
	"github.com/temirov/firestore_scripts/internal/docstore/testsupport"
)

func buildGrantCommand(testInstance *testing.T, opener *testsupport.OpenerStub, logger *zap.Logger, arguments ...string) (*bytes.Buffer, error) {
	testInstance.Helper()

	builder := admins.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return logger },
		StoreOpener:    opener.Open,
		Clock:          fixedClock{now: testWriteTime},
		CatalogProvider: func() docstore.Catalog {
			return docstore.Catalog{
				"production":  {Backend: string(docstore.BackendMemory)},
				"development": {Backend: string(docstore.BackendMemory)},
			}
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetArgs(arguments)
	command.SetContext(context.Background())
	return outputBuffer, command.Execute()
}

func TestGrantCommandWritesDefaultGrant(testInstance *testing.T) {
	storeStub, memoryStore := testsupport.NewStoreStub("production")
	opener := &testsupport.OpenerStub{Stores: map[string]docstore.Store{"production": storeStub}}

	outputBuffer, executeError := buildGrantCommand(testInstance, opener, zap.NewNop())
	require.NoError(testInstance, executeError)
	require.Equal(testInstance, "Successfully added ganapathy.angappan@gmail.com as admin.\n", outputBuffer.String())
	require.True(testInstance, storeStub.Closed)

	document, found, _ := memoryStore.Document(context.Background(), "admins", testGrantUserIDConstant)
	require.True(testInstance, found)
	require.Equal(testInstance, "firestore-scripts admin-grant", document.Fields["grantedBy"])
}

func TestGrantCommandHonorsFlags(testInstance *testing.T) {
	storeStub, memoryStore := testsupport.NewStoreStub("development")
	opener := &testsupport.OpenerStub{Stores: map[string]docstore.Store{"development": storeStub}}

	_, executeError := buildGrantCommand(testInstance, opener, zap.NewNop(),
		"--database", "development",
		"--collection", "staff_admins",
		"--user-id", "uid-42",
		"--email", "ops@example.com",
		"--display-name", "Ops",
		"--granted-by", "release-bot",
	)
	require.NoError(testInstance, executeError)

	document, found, _ := memoryStore.Document(context.Background(), "staff_admins", "uid-42")
	require.True(testInstance, found)
	require.Equal(testInstance, docstore.Fields{
		"email":       "ops@example.com",
		"displayName": "Ops",
		"grantedAt":   testWriteTime.UTC(),
		"grantedBy":   "release-bot",
	}, document.Fields)
}

func TestGrantCommandSwallowsWriteFailure(testInstance *testing.T) {
	storeStub, _ := testsupport.NewStoreStub("production")
	storeStub.Failures[testsupport.FailureKey{Operation: docstore.OperationUpsert, Collection: "admins"}] = errors.New("permission denied")
	opener := &testsupport.OpenerStub{Stores: map[string]docstore.Store{"production": storeStub}}
	logCore, observedLogs := observer.New(zap.InfoLevel)

	outputBuffer, executeError := buildGrantCommand(testInstance, opener, zap.New(logCore))
	require.NoError(testInstance, executeError)
	require.Empty(testInstance, outputBuffer.String())

	failureEntries := observedLogs.FilterMessage("Admin grant failed").All()
	require.Len(testInstance, failureEntries, 1)
	require.Equal(testInstance, "production", failureEntries[0].ContextMap()["database"])
}

func TestGrantCommandFailsWhenDatabaseCannotOpen(testInstance *testing.T) {
	openFailure := errors.New("invalid credentials")
	opener := &testsupport.OpenerStub{Errors: map[string]error{"production": openFailure}}

	_, executeError := buildGrantCommand(testInstance, opener, zap.NewNop())
	require.ErrorIs(testInstance, executeError, openFailure)

	_, unknownError := buildGrantCommand(testInstance, opener, zap.NewNop(), "--database", "staging")
	require.Error(testInstance, unknownError)
	require.Len(testInstance, opener.Configurations, 1)
}
