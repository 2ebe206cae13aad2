package flags

import (
	"strings"

	"github.com/spf13/cobra"
)

const (
	// DatabaseFlagName selects a named entry of the databases catalog.
	DatabaseFlagName = "database"
	// DatabaseFlagUsage describes the database flag.
	DatabaseFlagUsage = "Name of the configured database to operate on"
	// CollectionFlagName overrides the collection a command targets.
	CollectionFlagName = "collection"
	// CollectionFlagUsage describes the collection flag.
	CollectionFlagUsage = "Collection to operate on"
)

// BindDatabaseFlags attaches the shared database and collection flags to the command.
func BindDatabaseFlags(command *cobra.Command, defaultDatabase string, defaultCollection string) {
	if command == nil {
		return
	}
	command.Flags().String(DatabaseFlagName, defaultDatabase, DatabaseFlagUsage)
	command.Flags().String(CollectionFlagName, defaultCollection, CollectionFlagUsage)
}

// StringOverride returns the trimmed flag value when the flag was set explicitly, or fallback otherwise.
func StringOverride(command *cobra.Command, flagName string, fallback string) string {
	if command == nil {
		return fallback
	}
	flag := command.Flags().Lookup(flagName)
	if flag == nil || !flag.Changed {
		return fallback
	}
	return strings.TrimSpace(flag.Value.String())
}

// StringSliceOverride returns the flag values when the flag was set explicitly, or fallback otherwise.
func StringSliceOverride(command *cobra.Command, flagName string, fallback []string) []string {
	if command == nil || !command.Flags().Changed(flagName) {
		return fallback
	}
	values, valuesError := command.Flags().GetStringSlice(flagName)
	if valuesError != nil {
		return fallback
	}
	return values
}
