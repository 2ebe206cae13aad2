package rename

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/temirov/firestore_scripts/internal/dependencies"
	"github.com/temirov/firestore_scripts/internal/docstore"
	"github.com/temirov/firestore_scripts/internal/utils/flags"
)

const (
	commandUseConstant              = "titles-rename"
	commandShortDescriptionConstant = "Rename book titles from the transliteration table"
	commandLongDescriptionConstant  = "titles-rename applies the configured title corrections, then renames every filtered document whose title has a differing table entry, committing the updates in atomic batches. Any failure stops the run with a non-zero exit."
	batchLimitFlagNameConstant      = "batch-limit"
	batchLimitFlagUsageConstant     = "Maximum renames committed per atomic batch"
	correctionLineTemplateConstant  = "[SPECIFIC FIX] ID: %s -> %q\n"
	foundLineTemplateConstant       = "Found %d documents.\n"
	renameLineTemplateConstant      = "[RENAMING] %q -> %q\n"
	skipLineTemplateConstant        = "[SKIPPING] %q (%s)\n"
	renamedSummaryTemplateConstant  = "Successfully renamed %d titles.\n"
	nothingToRenameSummaryConstant  = "No titles needed renaming.\n"
)

// ServiceProvider constructs a rename service from dependencies.
type ServiceProvider func(dependencies ServiceDependencies) (*Service, error)

// CommandBuilder assembles the titles-rename Cobra command.
type CommandBuilder struct {
	LoggerProvider        dependencies.LoggerProvider
	StoreOpener           docstore.Opener
	CatalogProvider       func() docstore.Catalog
	ServiceProvider       ServiceProvider
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the titles-rename command.
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
	command.Flags().Int(batchLimitFlagNameConstant, defaults.BatchLimit, batchLimitFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.parseOptions(command)
	logger := dependencies.ResolveCommandLogger(builder.LoggerProvider, commandUseConstant, dependencies.DebugLoggingRequested(command.Context()))

	store, openError := dependencies.OpenDatabase(command.Context(), logger, builder.StoreOpener, dependencies.ResolveCatalog(builder.CatalogProvider), configuration.Database)
	if openError != nil {
		return openError
	}
	defer dependencies.CloseDatabase(command.Context(), logger, store)

	service, serviceError := builder.resolveService(ServiceDependencies{Logger: logger, Store: store})
	if serviceError != nil {
		return serviceError
	}

	report, executionError := service.Execute(command.Context(), Options{
		Collection:  configuration.Collection,
		FilterField: configuration.FilterField,
		FilterValue: configuration.FilterValue,
		TitleField:  configuration.TitleField,
		StampField:  configuration.StampField,
		BatchLimit:  configuration.BatchLimit,
		Corrections: configuration.Corrections,
		Table:       NewTable(configuration.Titles),
	})
	writeReport(command.OutOrStdout(), report, executionError == nil)
	return executionError
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) CommandConfiguration {
	configuration := builder.resolveConfiguration()
	configuration.Database = flags.StringOverride(command, flags.DatabaseFlagName, configuration.Database)
	configuration.Collection = flags.StringOverride(command, flags.CollectionFlagName, configuration.Collection)
	if command != nil && command.Flags().Changed(batchLimitFlagNameConstant) {
		if batchLimit, batchLimitError := command.Flags().GetInt(batchLimitFlagNameConstant); batchLimitError == nil {
			configuration.BatchLimit = batchLimit
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

func writeReport(output io.Writer, report Report, completed bool) {
	for _, correction := range report.Corrections {
		fmt.Fprintf(output, correctionLineTemplateConstant, correction.DocumentID, correction.Title)
	}
	if !completed && report.DocumentsFound == 0 {
		return
	}
	fmt.Fprintf(output, foundLineTemplateConstant, report.DocumentsFound)
	for _, decision := range report.Decisions {
		if decision.Renamed() {
			fmt.Fprintf(output, renameLineTemplateConstant, decision.CurrentTitle, decision.NewTitle)
			continue
		}
		fmt.Fprintf(output, skipLineTemplateConstant, decision.CurrentTitle, decision.Reason)
	}
	if !completed {
		return
	}
	if report.Committed > 0 {
		fmt.Fprintf(output, renamedSummaryTemplateConstant, report.Committed)
		return
	}
	fmt.Fprint(output, nothingToRenameSummaryConstant)
}
