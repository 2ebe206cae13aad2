package verify

import (
	"github.com/spf13/cobra"

	"github.com/temirov/firestore_scripts/internal/dependencies"
	"github.com/temirov/firestore_scripts/internal/docstore"
	"github.com/temirov/firestore_scripts/internal/utils/flags"
)

const (
	commandUseConstant              = "documents-verify"
	commandShortDescriptionConstant = "Print selected documents for inspection"
	commandLongDescriptionConstant  = "documents-verify fetches each configured document id in order and prints its fields. Missing documents are skipped; a fetch failure stops the run with a non-zero exit."
	documentIDFlagNameConstant      = "id"
	documentIDFlagUsageConstant     = "Document id to print (repeatable or comma separated)"
	formatFlagNameConstant          = "format"
	formatFlagDescriptionConstant   = "Encoding used to print document fields"
)

// CommandBuilder assembles the documents-verify Cobra command.
type CommandBuilder struct {
	LoggerProvider        dependencies.LoggerProvider
	StoreOpener           docstore.Opener
	CatalogProvider       func() docstore.Catalog
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the documents-verify command.
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

	flags.BindDatabaseFlags(command, defaults.Database, defaults.Collection)
	command.Flags().StringSlice(documentIDFlagNameConstant, defaults.DocumentIDs, documentIDFlagUsageConstant)
	command.Flags().String(formatFlagNameConstant, defaults.Format, flags.FormatChoiceUsage(defaults.Format, SupportedFormats(), formatFlagDescriptionConstant))

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.parseOptions(command)

	format, formatError := flags.NormalizeChoice(formatFlagNameConstant, configuration.Format, string(FormatJSON), SupportedFormats())
	if formatError != nil {
		return formatError
	}
	renderer, rendererError := NewRenderer(Format(format))
	if rendererError != nil {
		return rendererError
	}

	logger := dependencies.ResolveCommandLogger(builder.LoggerProvider, commandUseConstant, dependencies.DebugLoggingRequested(command.Context()))

	store, openError := dependencies.OpenDatabase(command.Context(), logger, builder.StoreOpener, dependencies.ResolveCatalog(builder.CatalogProvider), configuration.Database)
	if openError != nil {
		return openError
	}
	defer dependencies.CloseDatabase(command.Context(), logger, store)

	service, serviceError := NewService(ServiceDependencies{
		Logger:   logger,
		Store:    store,
		Output:   command.OutOrStdout(),
		Renderer: renderer,
	})
	if serviceError != nil {
		return serviceError
	}

	_, executionError := service.Execute(command.Context(), Options{
		Collection:  configuration.Collection,
		DocumentIDs: configuration.DocumentIDs,
	})
	return executionError
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) CommandConfiguration {
	configuration := builder.resolveConfiguration()
	configuration.Database = flags.StringOverride(command, flags.DatabaseFlagName, configuration.Database)
	configuration.Collection = flags.StringOverride(command, flags.CollectionFlagName, configuration.Collection)
	configuration.DocumentIDs = flags.StringSliceOverride(command, documentIDFlagNameConstant, configuration.DocumentIDs)
	configuration.Format = flags.StringOverride(command, formatFlagNameConstant, configuration.Format)
	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	provided := builder.ConfigurationProvider()
	return provided.Sanitize()
}
