package pathutils_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/firestore_scripts/internal/utils/path"
)

const (
	testHomeDirectoryConstant       = "/home/operator"
	testHomeExpanderSubtestTemplate = "%d_%s"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name          string
		provider      pathutils.HomeDirectoryProvider
		candidatePath string
		expectedPath  string
	}{
		{
			name:          "expands_tilde_slash_prefix",
			provider:      func() (string, error) { return testHomeDirectoryConstant, nil },
			candidatePath: "~/keys/service-account.json",
			expectedPath:  filepath.Join(testHomeDirectoryConstant, "keys", "service-account.json"),
		},
		{
			name:          "expands_bare_tilde",
			provider:      func() (string, error) { return testHomeDirectoryConstant, nil },
			candidatePath: "~",
			expectedPath:  testHomeDirectoryConstant,
		},
		{
			name:          "keeps_absolute_path",
			provider:      func() (string, error) { return testHomeDirectoryConstant, nil },
			candidatePath: "/etc/keys/service-account.json",
			expectedPath:  "/etc/keys/service-account.json",
		},
		{
			name:          "keeps_other_user_prefix",
			provider:      func() (string, error) { return testHomeDirectoryConstant, nil },
			candidatePath: "~other/keys.json",
			expectedPath:  "~other/keys.json",
		},
		{
			name:          "keeps_path_when_home_lookup_fails",
			provider:      func() (string, error) { return "", errors.New("no home") },
			candidatePath: "~/keys.json",
			expectedPath:  "~/keys.json",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testHomeExpanderSubtestTemplate, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			expander := pathutils.NewHomeExpanderWithProvider(testCase.provider)
			require.Equal(testInstance, testCase.expectedPath, expander.Expand(testCase.candidatePath))
		})
	}
}
