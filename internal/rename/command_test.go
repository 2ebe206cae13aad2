package rename_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/firestore_scripts/internal/docstore"
	"github.com/temirov/firestore_scripts/internal/docstore/testsupport"
	"github.com/temirov/firestore_scripts/internal/rename"
)

func executeRenameCommand(testInstance *testing.T, opener *testsupport.OpenerStub, arguments ...string) (string, error) {
	testInstance.Helper()

	builder := rename.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		StoreOpener:    opener.Open,
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
	executeError := command.Execute()
	return outputBuffer.String(), executeError
}

func TestRenameCommandPrintsDecisions(testInstance *testing.T) {
	storeStub, memoryStore := testsupport.NewStoreStub("production")
	memoryStore.Seed(testBooksCollectionConstant,
		book(testCorrectionIDConstant, "Karma Vinai", testTamilCategoryConstant),
		book("b-vedantham", "Vedantham", testTamilCategoryConstant),
		book("c-unknown", "Unknown Book", testTamilCategoryConstant),
	)
	opener := &testsupport.OpenerStub{Stores: map[string]docstore.Store{"production": storeStub}}

	output, executeError := executeRenameCommand(testInstance, opener)
	require.NoError(testInstance, executeError)
	require.True(testInstance, storeStub.Closed)
	require.Equal(testInstance,
		"[SPECIFIC FIX] ID: 12q2kiiMYPIiWrWbea2k -> \"கர்ம வினை\"\n"+
			"Found 3 documents.\n"+
			"[SKIPPING] \"கர்ம வினை\" (already renamed)\n"+
			"[RENAMING] \"Vedantham\" -> \"வேதாந்தம்\"\n"+
			"[SKIPPING] \"Unknown Book\" (no mapping)\n"+
			"Successfully renamed 1 titles.\n",
		output,
	)
}

func TestRenameCommandReportsNothingToRename(testInstance *testing.T) {
	storeStub, memoryStore := testsupport.NewStoreStub("development")
	memoryStore.Seed(testBooksCollectionConstant, book(testCorrectionIDConstant, "Karma Vinai", testTamilCategoryConstant))
	opener := &testsupport.OpenerStub{Stores: map[string]docstore.Store{"development": storeStub}}

	output, executeError := executeRenameCommand(testInstance, opener, "--database", "development")
	require.NoError(testInstance, executeError)
	require.Contains(testInstance, output, "No titles needed renaming.\n")
	require.Equal(testInstance, "development", opener.Configurations[0].Label)
}

func TestRenameCommandFailsOnErrors(testInstance *testing.T) {
	testCases := []struct {
		name      string
		configure func(storeStub *testsupport.StoreStub, memoryStore *docstore.MemoryStore)
	}{
		{
			name: "missing_correction_target",
			configure: func(*testsupport.StoreStub, *docstore.MemoryStore) {},
		},
		{
			name: "query_failure",
			configure: func(storeStub *testsupport.StoreStub, memoryStore *docstore.MemoryStore) {
				memoryStore.Seed(testBooksCollectionConstant, book(testCorrectionIDConstant, "x", testTamilCategoryConstant))
				storeStub.Failures[testsupport.FailureKey{Operation: docstore.OperationQueryEquals, Collection: testBooksCollectionConstant}] = errors.New("unavailable")
			},
		},
		{
			name: "commit_failure",
			configure: func(storeStub *testsupport.StoreStub, memoryStore *docstore.MemoryStore) {
				memoryStore.Seed(testBooksCollectionConstant,
					book(testCorrectionIDConstant, "x", testTamilCategoryConstant),
					book("b-vedantham", "Vedantham", testTamilCategoryConstant),
				)
				storeStub.CommitFails = []error{errors.New("aborted")}
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(testInstance *testing.T) {
			storeStub, memoryStore := testsupport.NewStoreStub("production")
			testCase.configure(storeStub, memoryStore)
			opener := &testsupport.OpenerStub{Stores: map[string]docstore.Store{"production": storeStub}}

			output, executeError := executeRenameCommand(testInstance, opener)
			require.Error(testInstance, executeError)
			require.NotContains(testInstance, output, "Successfully renamed")
			require.NotContains(testInstance, output, "No titles needed renaming")
			require.True(testInstance, storeStub.Closed)
		})
	}
}

func TestRenameCommandFailsWhenDatabaseCannotOpen(testInstance *testing.T) {
	opener := &testsupport.OpenerStub{Errors: map[string]error{"production": errors.New("bad credentials")}}
	_, executeError := executeRenameCommand(testInstance, opener)
	require.Error(testInstance, executeError)
}
