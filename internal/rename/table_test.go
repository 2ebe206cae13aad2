package rename_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/firestore_scripts/internal/rename"
)

func TestTableResolve(testInstance *testing.T) {
	table := rename.NewTable([]rename.TitleMapping{
		{From: "Vedantham", To: "வேதாந்தம்"},
		{From: "Vedantham", To: "ignored"},
		{From: "Identity", To: "Identity"},
		{From: "Blank", To: ""},
	})
	require.Equal(testInstance, 2, table.Len())

	testCases := []struct {
		name            string
		currentTitle    string
		expectedTitle   string
		expectedReason  rename.SkipReason
		expectedRenamed bool
	}{
		{name: "mapped_title", currentTitle: "Vedantham", expectedTitle: "வேதாந்தம்", expectedRenamed: true},
		{name: "already_target", currentTitle: "வேதாந்தம்", expectedReason: rename.SkipReasonAlreadyRenamed},
		{name: "identity_mapping", currentTitle: "Identity", expectedReason: rename.SkipReasonAlreadyRenamed},
		{name: "unknown_title", currentTitle: "Unknown Book", expectedReason: rename.SkipReasonNoMapping},
		{name: "case_sensitive", currentTitle: "vedantham", expectedReason: rename.SkipReasonNoMapping},
		{name: "empty_replacement_ignored", currentTitle: "Blank", expectedReason: rename.SkipReasonNoMapping},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(testInstance *testing.T) {
			newTitle, reason, renamed := table.Resolve(testCase.currentTitle)
			require.Equal(testInstance, testCase.expectedRenamed, renamed)
			require.Equal(testInstance, testCase.expectedTitle, newTitle)
			require.Equal(testInstance, testCase.expectedReason, reason)
		})
	}
}
