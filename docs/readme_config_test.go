package docs_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/firestore_scripts/cmd/cli"
	"github.com/temirov/firestore_scripts/internal/utils"
)

const (
	readmeFileNameConstant             = "README.md"
	yamlFenceStartConstant             = "```yaml"
	yamlFenceEndConstant               = "```"
	configHeaderMarkerConstant         = "# config.yaml"
	readmeSnippetTestNameConstant      = "readme_tool_configuration"
	readmeSnippetTemporaryPattern      = "readme-config-*.yaml"
	readmeSubtestNameTemplateConstant  = "%d_%s"
	readmeConfigurationNameConstant    = "config"
	readmeConfigurationTypeConstant    = "yaml"
	readmeEnvironmentPrefixConstant    = "FIRESTORESCRIPTSREADME"
	parentDirectoryReferenceConstant   = ".."
	missingHeaderMessageConstant       = "README example missing config header marker"
	missingStartFenceMessageConstant   = "README example missing yaml fence start"
	missingEndFenceMessageConstant     = "README example missing yaml fence end"
	unexpectedToolMessageTemplate      = "unexpected tool %s"
	unresolvedDatabaseMessageTemplate  = "tool %s references unknown database %s"
	defaultTempDirectoryRootConstant   = ""
	expectedMigrateProgressInterval    = 25
	expectedRenameBatchLimit           = 200
	expectedVerifyFormatConstant       = "yaml"
	expectedMigrateCollectionCount     = 3
	expectedReadmeDatabaseCountMinimum = 3
)

var expectedToolNames = map[string]struct{}{
	"migrate":     {},
	"rename":      {},
	"verify":      {},
	"admin_grant": {},
}

type readmeApplicationConfiguration struct {
	Tools map[string]map[string]any `yaml:"tools"`
}

func TestReadmeToolConfigurationParses(testInstance *testing.T) {
	snippetContent := readReadmeConfigurationSnippet(testInstance)

	testCases := []struct {
		name          string
		configuration string
	}{
		{
			name:          readmeSnippetTestNameConstant,
			configuration: snippetContent,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(readmeSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(subtest *testing.T) {
			tempFile, tempFileError := os.CreateTemp(defaultTempDirectoryRootConstant, readmeSnippetTemporaryPattern)
			require.NoError(subtest, tempFileError)
			subtest.Cleanup(func() {
				require.NoError(subtest, os.Remove(tempFile.Name()))
			})

			_, writeError := tempFile.WriteString(testCase.configuration)
			require.NoError(subtest, writeError)
			require.NoError(subtest, tempFile.Close())

			var rawConfiguration readmeApplicationConfiguration
			unmarshalError := yaml.Unmarshal([]byte(testCase.configuration), &rawConfiguration)
			require.NoError(subtest, unmarshalError)
			for toolName := range rawConfiguration.Tools {
				_, expected := expectedToolNames[toolName]
				require.Truef(subtest, expected, unexpectedToolMessageTemplate, toolName)
			}

			configurationLoader := utils.NewConfigurationLoader(
				readmeConfigurationNameConstant,
				readmeConfigurationTypeConstant,
				readmeEnvironmentPrefixConstant,
				nil,
			)
			configurationLoader.SetEmbeddedConfiguration(cli.EmbeddedDefaultConfiguration())

			var applicationConfiguration cli.ApplicationConfiguration
			_, loadError := configurationLoader.LoadConfiguration(tempFile.Name(), nil, &applicationConfiguration)
			require.NoError(subtest, loadError)

			require.GreaterOrEqual(subtest, len(applicationConfiguration.Databases), expectedReadmeDatabaseCountMinimum)
			for databaseName := range applicationConfiguration.Databases {
				resolved, resolveError := applicationConfiguration.Databases.Resolve(databaseName)
				require.NoError(subtest, resolveError)
				require.NoError(subtest, resolved.Validate())
			}

			tools := applicationConfiguration.Tools
			referencedDatabases := map[string]string{
				"migrate.source":      tools.Migrate.Sanitize().Source,
				"migrate.destination": tools.Migrate.Sanitize().Destination,
				"rename":              tools.Rename.Sanitize().Database,
				"verify":              tools.Verify.Sanitize().Database,
				"admin_grant":         tools.AdminGrant.Sanitize().Database,
			}
			for toolName, databaseName := range referencedDatabases {
				_, resolveError := applicationConfiguration.Databases.Resolve(databaseName)
				require.NoErrorf(subtest, resolveError, unresolvedDatabaseMessageTemplate, toolName, databaseName)
			}

			require.Len(subtest, tools.Migrate.Sanitize().Collections, expectedMigrateCollectionCount)
			require.Equal(subtest, expectedMigrateProgressInterval, tools.Migrate.Sanitize().ProgressInterval)
			require.Equal(subtest, expectedRenameBatchLimit, tools.Rename.Sanitize().BatchLimit)
			require.NotEmpty(subtest, tools.Rename.Sanitize().Titles)
			require.Equal(subtest, expectedVerifyFormatConstant, tools.Verify.Sanitize().Format)
		})
	}
}

func readReadmeConfigurationSnippet(testInstance *testing.T) string {
	testInstance.Helper()

	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	readmePath := filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant)
	contentBytes, readError := os.ReadFile(readmePath)
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	remainingText := contentText[headerIndex:]
	fenceEndRelativeIndex := strings.Index(remainingText, yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)
	fenceEndIndex := headerIndex + fenceEndRelativeIndex

	return strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : fenceEndIndex])
}
