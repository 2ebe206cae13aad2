// Package dependencies resolves the collaborators shared by every command:
// database openers, clocks, and command-scoped loggers.
package dependencies

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/firestore_scripts/internal/docstore"
	"github.com/temirov/firestore_scripts/internal/utils"
)

const (
	logFieldRunIdentifierConstant = "run_id"
	logFieldCommandNameConstant   = "command"
	logFieldDatabaseConstant      = "database"
	logFieldBackendConstant       = "backend"
	databaseOpenedMessageConstant = "Database opened"
	databaseCloseFailedMessage    = "Database close failed"
	databaseResolveErrorTemplate  = "unable to resolve database: %w"
)

// Clock abstracts time-dependent functionality for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the standard library.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ResolveStoreOpener returns the provided opener or the docstore default.
func ResolveStoreOpener(existing docstore.Opener) docstore.Opener {
	if existing != nil {
		return existing
	}
	return docstore.Open
}

// ResolveClock returns the provided clock or the system clock.
func ResolveClock(existing Clock) Clock {
	if existing != nil {
		return existing
	}
	return SystemClock{}
}

// ResolveCatalog returns the provided catalog or an empty one.
func ResolveCatalog(provider func() docstore.Catalog) docstore.Catalog {
	if provider == nil {
		return docstore.Catalog{}
	}
	catalog := provider()
	if catalog == nil {
		return docstore.Catalog{}
	}
	return catalog
}

// ResolveCommandLogger tags the provided logger with the command name and a fresh run identifier.
func ResolveCommandLogger(provider LoggerProvider, commandName string, enableDebug bool) *zap.Logger {
	var logger *zap.Logger
	if provider != nil {
		logger = provider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if enableDebug {
		logger = logger.WithOptions(zap.IncreaseLevel(zapcore.DebugLevel))
	}
	return logger.With(
		zap.String(logFieldCommandNameConstant, commandName),
		zap.String(logFieldRunIdentifierConstant, uuid.NewString()),
	)
}

// DebugLoggingRequested reports whether the root command selected debug logging.
func DebugLoggingRequested(executionContext context.Context) bool {
	logLevel, available := utils.NewCommandContextAccessor().LogLevel(executionContext)
	return available && strings.EqualFold(logLevel, string(utils.LogLevelDebug))
}

// OpenDatabase resolves databaseName in the catalog and opens it.
func OpenDatabase(executionContext context.Context, logger *zap.Logger, opener docstore.Opener, catalog docstore.Catalog, databaseName string) (docstore.Store, error) {
	instanceConfiguration, resolveError := catalog.Resolve(databaseName)
	if resolveError != nil {
		return nil, fmt.Errorf(databaseResolveErrorTemplate, resolveError)
	}

	store, openError := ResolveStoreOpener(opener)(executionContext, instanceConfiguration)
	if openError != nil {
		return nil, openError
	}

	logger.Debug(
		databaseOpenedMessageConstant,
		zap.String(logFieldDatabaseConstant, instanceConfiguration.Label),
		zap.String(logFieldBackendConstant, instanceConfiguration.Backend),
	)
	return store, nil
}

// CloseDatabase closes the store and logs, rather than returns, any failure.
func CloseDatabase(executionContext context.Context, logger *zap.Logger, store docstore.Store) {
	if store == nil {
		return
	}
	if closeError := store.Close(executionContext); closeError != nil {
		logger.Warn(
			databaseCloseFailedMessage,
			zap.String(logFieldDatabaseConstant, store.Label()),
			zap.Error(closeError),
		)
	}
}
