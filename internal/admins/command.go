package admins

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/firestore_scripts/internal/dependencies"
	"github.com/temirov/firestore_scripts/internal/docstore"
	"github.com/temirov/firestore_scripts/internal/utils/flags"
)

const (
	commandUseConstant              = "admin-grant"
	commandShortDescriptionConstant = "Grant administrator access to a user"
	commandLongDescriptionConstant  = "admin-grant upserts one admin document keyed by the user id with the email, display name, grant time, and grantor. A failed write is logged and the command still exits successfully."
	userIDFlagNameConstant          = "user-id"
	userIDFlagUsageConstant         = "Authentication user id keying the admin document"
	emailFlagNameConstant           = "email"
	emailFlagUsageConstant          = "Email address of the administrator"
	displayNameFlagNameConstant     = "display-name"
	displayNameFlagUsageConstant    = "Display name of the administrator"
	grantedByFlagNameConstant       = "granted-by"
	grantedByFlagUsageConstant      = "Identity recorded as the grantor"
	grantFailedMessageConstant      = "Admin grant failed"
	grantSucceededTemplateConstant  = "Successfully added %s as admin.\n"
	logFieldDatabaseConstant        = "database"
)

// ServiceProvider constructs a Service from dependencies.
type ServiceProvider func(serviceDependencies ServiceDependencies) (*Service, error)

// CommandBuilder assembles the admin-grant Cobra command.
type CommandBuilder struct {
	LoggerProvider        dependencies.LoggerProvider
	StoreOpener           docstore.Opener
	Clock                 dependencies.Clock
	CatalogProvider       func() docstore.Catalog
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the admin-grant command.
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
	command.Flags().String(userIDFlagNameConstant, defaults.UserID, userIDFlagUsageConstant)
	command.Flags().String(emailFlagNameConstant, defaults.Email, emailFlagUsageConstant)
	command.Flags().String(displayNameFlagNameConstant, defaults.DisplayName, displayNameFlagUsageConstant)
	command.Flags().String(grantedByFlagNameConstant, defaults.GrantedBy, grantedByFlagUsageConstant)

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

	service, serviceError := NewService(ServiceDependencies{Store: store, Clock: builder.Clock, Logger: logger})
	if serviceError != nil {
		return serviceError
	}

	grant := configuration.Grant()
	if grantError := service.Grant(command.Context(), configuration.Collection, grant); grantError != nil {
		logger.Error(
			grantFailedMessageConstant,
			zap.String(logFieldDatabaseConstant, store.Label()),
			zap.String(logFieldEmailConstant, grant.Email),
			zap.Error(grantError),
		)
		return nil
	}

	fmt.Fprintf(command.OutOrStdout(), grantSucceededTemplateConstant, grant.Email)
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) CommandConfiguration {
	configuration := builder.resolveConfiguration()
	configuration.Database = flags.StringOverride(command, flags.DatabaseFlagName, configuration.Database)
	configuration.Collection = flags.StringOverride(command, flags.CollectionFlagName, configuration.Collection)
	configuration.UserID = flags.StringOverride(command, userIDFlagNameConstant, configuration.UserID)
	configuration.Email = flags.StringOverride(command, emailFlagNameConstant, configuration.Email)
	configuration.DisplayName = flags.StringOverride(command, displayNameFlagNameConstant, configuration.DisplayName)
	configuration.GrantedBy = flags.StringOverride(command, grantedByFlagNameConstant, configuration.GrantedBy)
	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	provided := builder.ConfigurationProvider()
	return provided.Sanitize()
}
