package verify_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/firestore_scripts/internal/verify"
)

func TestCommandConfigurationSanitize(testInstance *testing.T) {
	require.Equal(testInstance, verify.DefaultCommandConfiguration(), verify.CommandConfiguration{}.Sanitize())

	sanitized := verify.CommandConfiguration{
		Collection:  " archive ",
		DocumentIDs: []string{" a ", "", "a"},
		Format:      " YAML ",
	}.Sanitize()
	require.Equal(testInstance, verify.CommandConfiguration{
		Database:    "production",
		Collection:  "archive",
		DocumentIDs: []string{"a", "a"},
		Format:      "yaml",
	}, sanitized)
}
