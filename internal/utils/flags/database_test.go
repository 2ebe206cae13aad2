package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestDatabaseFlagOverrides(testInstance *testing.T) {
	command := &cobra.Command{Use: "probe"}
	BindDatabaseFlags(command, "production", "books")
	command.Flags().StringSlice("id", nil, "")

	require.Equal(testInstance, "configured", StringOverride(command, DatabaseFlagName, "configured"))
	require.Equal(testInstance, []string{"a"}, StringSliceOverride(command, "id", []string{"a"}))

	require.NoError(testInstance, command.Flags().Set(DatabaseFlagName, " development "))
	require.NoError(testInstance, command.Flags().Set("id", "x,y"))

	require.Equal(testInstance, "development", StringOverride(command, DatabaseFlagName, "configured"))
	require.Equal(testInstance, "configured", StringOverride(command, "missing", "configured"))
	require.Equal(testInstance, []string{"x", "y"}, StringSliceOverride(command, "id", []string{"a"}))
}
