package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/firestore_scripts/internal/utils"
)

func TestCommandContextAccessorRoundTrip(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	executionContext := accessor.WithConfigurationFilePath(context.Background(), "/etc/firestore-scripts/config.yaml")
	executionContext = accessor.WithLogLevel(executionContext, "debug")

	configurationFilePath, pathAvailable := accessor.ConfigurationFilePath(executionContext)
	require.True(testInstance, pathAvailable)
	require.Equal(testInstance, "/etc/firestore-scripts/config.yaml", configurationFilePath)

	logLevel, levelAvailable := accessor.LogLevel(executionContext)
	require.True(testInstance, levelAvailable)
	require.Equal(testInstance, "debug", logLevel)
}

func TestCommandContextAccessorMissingValues(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	_, pathAvailable := accessor.ConfigurationFilePath(context.Background())
	require.False(testInstance, pathAvailable)

	_, levelAvailable := accessor.LogLevel(nil) //nolint:staticcheck
	require.False(testInstance, levelAvailable)
}
