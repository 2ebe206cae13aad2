package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/firestore_scripts/internal/admins"
	"github.com/temirov/firestore_scripts/internal/dependencies"
	"github.com/temirov/firestore_scripts/internal/docstore"
	"github.com/temirov/firestore_scripts/internal/utils/flags"
)

const (
	commandUseConstant                  = "collections-migrate"
	commandShortDescriptionConstant     = "Copy collections between databases and seed the super admin"
	commandLongDescriptionConstant      = "collections-migrate copies each configured collection from the source database into the destination database, preserving document ids and fields, then writes the super admin record. Failures are logged per collection and the command still exits successfully."
	sourceFlagNameConstant              = "source"
	sourceFlagUsageConstant             = "Configured database to read collections from"
	destinationFlagNameConstant         = "destination"
	destinationFlagUsageConstant        = "Configured database to write collections to"
	collectionsFlagNameConstant         = "collections"
	collectionsFlagUsageConstant        = "Collections to migrate, in order (repeatable or comma separated)"
	progressIntervalFlagNameConstant    = "progress-interval"
	progressIntervalFlagUsageConstant   = "Log progress after every N written documents"
	adminServiceErrorTemplateConstant   = "unable to construct admin writer: %w"
	summaryCollectionLineTemplate       = "%s: migrated %d of %d documents\n"
	summaryCollectionFailedLineTemplate = "%s: failed after %d of %d documents: %v\n"
	summaryAdminLineTemplate            = "admin %s: seeded\n"
	summaryAdminFailedLineTemplate      = "admin %s: failed: %v\n"
)

// ServiceProvider constructs a migration service from dependencies.
type ServiceProvider func(dependencies ServiceDependencies) (*Service, error)

// CommandBuilder assembles the collections-migrate Cobra command.
type CommandBuilder struct {
	LoggerProvider        dependencies.LoggerProvider
	StoreOpener           docstore.Opener
	Clock                 dependencies.Clock
	CatalogProvider       func() docstore.Catalog
	ServiceProvider       ServiceProvider
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the collections-migrate command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	defaults := builder.resolveConfiguration()

	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.run,
	}

	command.Flags().String(sourceFlagNameConstant, defaults.Source, sourceFlagUsageConstant)
	command.Flags().String(destinationFlagNameConstant, defaults.Destination, destinationFlagUsageConstant)
	command.Flags().StringSlice(collectionsFlagNameConstant, defaults.Collections, collectionsFlagUsageConstant)
	command.Flags().Int(progressIntervalFlagNameConstant, defaults.ProgressInterval, progressIntervalFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.parseOptions(command)
	logger := dependencies.ResolveCommandLogger(builder.LoggerProvider, commandUseConstant, dependencies.DebugLoggingRequested(command.Context()))
	catalog := dependencies.ResolveCatalog(builder.CatalogProvider)

	source, sourceError := dependencies.OpenDatabase(command.Context(), logger, builder.StoreOpener, catalog, configuration.Source)
	if sourceError != nil {
		return sourceError
	}
	defer dependencies.CloseDatabase(command.Context(), logger, source)

	destination, destinationError := dependencies.OpenDatabase(command.Context(), logger, builder.StoreOpener, catalog, configuration.Destination)
	if destinationError != nil {
		return destinationError
	}
	defer dependencies.CloseDatabase(command.Context(), logger, destination)

	adminWriter, adminError := admins.NewService(admins.ServiceDependencies{Store: destination, Clock: builder.Clock, Logger: logger})
	if adminError != nil {
		return fmt.Errorf(adminServiceErrorTemplateConstant, adminError)
	}

	service, serviceError := builder.resolveService(ServiceDependencies{
		Logger:      logger,
		Source:      source,
		Destination: destination,
		AdminWriter: adminWriter,
	})
	if serviceError != nil {
		return serviceError
	}

	summary, executionError := service.Execute(command.Context(), MigrationOptions{
		Collections:      configuration.Collections,
		ProgressInterval: configuration.ProgressInterval,
		AdminCollection:  configuration.AdminCollection,
		Admin:            configuration.Admin,
	})
	writeSummary(command, summary, configuration.Admin.Email)
	return executionError
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) CommandConfiguration {
	configuration := builder.resolveConfiguration()
	configuration.Source = flags.StringOverride(command, sourceFlagNameConstant, configuration.Source)
	configuration.Destination = flags.StringOverride(command, destinationFlagNameConstant, configuration.Destination)
	configuration.Collections = flags.StringSliceOverride(command, collectionsFlagNameConstant, configuration.Collections)
	if command != nil && command.Flags().Changed(progressIntervalFlagNameConstant) {
		if progressInterval, intervalError := command.Flags().GetInt(progressIntervalFlagNameConstant); intervalError == nil {
			configuration.ProgressInterval = progressInterval
		}
	}
	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveService(serviceDependencies ServiceDependencies) (*Service, error) {
	if builder.ServiceProvider != nil {
		return builder.ServiceProvider(serviceDependencies)
	}
	return NewService(serviceDependencies)
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	provided := builder.ConfigurationProvider()
	return provided.Sanitize()
}

func writeSummary(command *cobra.Command, summary MigrationSummary, adminEmail string) {
	output := command.OutOrStdout()
	for _, outcome := range summary.Collections {
		if outcome.Failure != nil {
			fmt.Fprintf(output, summaryCollectionFailedLineTemplate, outcome.Name, outcome.Migrated, outcome.DocumentsRead, outcome.Failure)
			continue
		}
		fmt.Fprintf(output, summaryCollectionLineTemplate, outcome.Name, outcome.Migrated, outcome.DocumentsRead)
	}
	if summary.AdminSeeded {
		fmt.Fprintf(output, summaryAdminLineTemplate, adminEmail)
		return
	}
	if summary.AdminError != nil {
		fmt.Fprintf(output, summaryAdminFailedLineTemplate, adminEmail, summary.AdminError)
	}
}

