package flags

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "DefaultFirstChoice",
			defaultChoice:  "json",
			choices:        []string{"json", "yaml"},
			description:    "Output format for fetched documents.",
			expectedOutput: "`<JSON|yaml>` Output format for fetched documents.",
		},
		{
			name:           "DefaultSecondChoice",
			defaultChoice:  "yaml",
			choices:        []string{"json", "yaml"},
			description:    "Output format for fetched documents.",
			expectedOutput: "`<json|YAML>` Output format for fetched documents.",
		},
		{
			name:           "EmptyDescription",
			defaultChoice:  "structured",
			choices:        []string{"structured", "console"},
			expectedOutput: "`<STRUCTURED|console>`",
		},
		{
			name:           "DuplicateChoicesIgnored",
			defaultChoice:  "yaml",
			choices:        []string{"yaml", "yaml", "json", " json "},
			description:    "Select between options.",
			expectedOutput: "`<YAML|json>` Select between options.",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(testInstance *testing.T) {
			actual := FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(testInstance, testCase.expectedOutput, actual)
		})
	}
}

func TestNormalizeChoice(testInstance *testing.T) {
	testCases := []struct {
		name           string
		value          string
		expectedChoice string
		expectError    bool
	}{
		{name: "ExactMatch", value: "yaml", expectedChoice: "yaml"},
		{name: "CaseInsensitive", value: " JSON ", expectedChoice: "json"},
		{name: "EmptyUsesDefault", value: "", expectedChoice: "json"},
		{name: "Unsupported", value: "xml", expectError: true},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(testInstance *testing.T) {
			choice, normalizeError := NormalizeChoice("format", testCase.value, "json", []string{"json", "yaml"})
			if testCase.expectError {
				require.Error(testInstance, normalizeError)
				require.Contains(testInstance, normalizeError.Error(), "json, yaml")
				return
			}
			require.NoError(testInstance, normalizeError)
			require.Equal(testInstance, testCase.expectedChoice, choice)
		})
	}
}
