package migrate

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/firestore_scripts/internal/admins"
	"github.com/temirov/firestore_scripts/internal/docstore"
)

const (
	sourceStoreMissingMessageConstant      = "source store not configured"
	destinationStoreMissingMessageConstant = "destination store not configured"
	adminWriterMissingMessageConstant      = "admin writer not configured"
	collectionReadErrorTemplateConstant    = "unable to read collection %s: %w"
	documentWriteErrorTemplateConstant     = "unable to write document %s/%s: %w"
	collectionStartedMessageConstant       = "Migrating collection"
	documentsFoundMessageConstant          = "Documents found"
	migrationProgressMessageConstant       = "Migration progress"
	collectionMigratedMessageConstant      = "Collection migrated"
	collectionFailedMessageConstant        = "Collection migration failed"
	adminSeedStartedMessageConstant        = "Seeding admin record"
	adminSeedFailedMessageConstant         = "Admin seed failed"
	migrationFinishedMessageConstant       = "Migration finished"
	logFieldCollectionConstant             = "collection"
	logFieldCountConstant                  = "count"
	logFieldSourceConstant                 = "source"
	logFieldDestinationConstant            = "destination"
	logFieldEmailConstant                  = "email"
	logFieldMigratedCollectionsConstant    = "migrated_collections"
	logFieldFailedCollectionsConstant      = "failed_collections"
	logFieldDocumentsConstant              = "documents"
	logFieldAdminSeededConstant            = "admin_seeded"
)

var (
	errSourceStoreMissing      = errors.New(sourceStoreMissingMessageConstant)
	errDestinationStoreMissing = errors.New(destinationStoreMissingMessageConstant)
	errAdminWriterMissing      = errors.New(adminWriterMissingMessageConstant)
)

// AdminWriter seeds the administrator record after collections are copied.
type AdminWriter interface {
	SeedRecord(executionContext context.Context, collection string, record admins.Record) error
}

// ServiceDependencies describes required collaborators for migration.
type ServiceDependencies struct {
	Logger      *zap.Logger
	Source      docstore.Store
	Destination docstore.Store
	AdminWriter AdminWriter
}

// MigrationOptions configures one migration run.
type MigrationOptions struct {
	Collections      []string
	ProgressInterval int
	AdminCollection  string
	Admin            admins.Record
}

// CollectionOutcome records the result of migrating one collection.
type CollectionOutcome struct {
	Name          string
	DocumentsRead int
	Migrated      int
	Failure       error
}

// MigrationSummary captures the observable outcomes of a run.
type MigrationSummary struct {
	Collections []CollectionOutcome
	AdminSeeded bool
	AdminError  error
}

// MigratedDocuments totals the documents written across collections.
func (summary MigrationSummary) MigratedDocuments() int {
	total := 0
	for _, outcome := range summary.Collections {
		total += outcome.Migrated
	}
	return total
}

// FailedCollections lists collections whose migration stopped on an error.
func (summary MigrationSummary) FailedCollections() []string {
	var failed []string
	for _, outcome := range summary.Collections {
		if outcome.Failure != nil {
			failed = append(failed, outcome.Name)
		}
	}
	return failed
}

// Service copies collections between stores.
type Service struct {
	logger      *zap.Logger
	source      docstore.Store
	destination docstore.Store
	adminWriter AdminWriter
}

// NewService constructs a Service with the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Source == nil {
		return nil, errSourceStoreMissing
	}
	if dependencies.Destination == nil {
		return nil, errDestinationStoreMissing
	}
	if dependencies.AdminWriter == nil {
		return nil, errAdminWriterMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		logger:      logger,
		source:      dependencies.Source,
		destination: dependencies.Destination,
		adminWriter: dependencies.AdminWriter,
	}, nil
}

// Execute migrates every collection in order and then seeds the admin record.
// Per-collection and admin failures are recorded in the summary; only context cancellation is returned as an error.
func (service *Service) Execute(executionContext context.Context, options MigrationOptions) (MigrationSummary, error) {
	progressInterval := options.ProgressInterval
	if progressInterval <= 0 {
		progressInterval = defaultProgressIntervalConstant
	}

	summary := MigrationSummary{}
	for _, collectionName := range options.Collections {
		if contextError := executionContext.Err(); contextError != nil {
			return summary, contextError
		}

		outcome := service.migrateCollection(executionContext, collectionName, progressInterval)
		summary.Collections = append(summary.Collections, outcome)
		if outcome.Failure != nil {
			service.logger.Error(
				collectionFailedMessageConstant,
				zap.String(logFieldCollectionConstant, collectionName),
				zap.Int(logFieldCountConstant, outcome.Migrated),
				zap.Error(outcome.Failure),
			)
		}
	}

	if contextError := executionContext.Err(); contextError != nil {
		return summary, contextError
	}

	service.logger.Info(
		adminSeedStartedMessageConstant,
		zap.String(logFieldEmailConstant, options.Admin.Email),
		zap.String(logFieldDestinationConstant, service.destination.Label()),
	)
	adminError := service.adminWriter.SeedRecord(executionContext, options.AdminCollection, options.Admin)
	if adminError != nil {
		summary.AdminError = adminError
		service.logger.Error(
			adminSeedFailedMessageConstant,
			zap.String(logFieldEmailConstant, options.Admin.Email),
			zap.Error(adminError),
		)
	} else {
		summary.AdminSeeded = true
	}

	service.logger.Info(
		migrationFinishedMessageConstant,
		zap.Int(logFieldMigratedCollectionsConstant, len(summary.Collections)-len(summary.FailedCollections())),
		zap.Strings(logFieldFailedCollectionsConstant, summary.FailedCollections()),
		zap.Int(logFieldDocumentsConstant, summary.MigratedDocuments()),
		zap.Bool(logFieldAdminSeededConstant, summary.AdminSeeded),
	)

	return summary, nil
}

func (service *Service) migrateCollection(executionContext context.Context, collectionName string, progressInterval int) CollectionOutcome {
	outcome := CollectionOutcome{Name: collectionName}

	service.logger.Info(
		collectionStartedMessageConstant,
		zap.String(logFieldCollectionConstant, collectionName),
		zap.String(logFieldSourceConstant, service.source.Label()),
		zap.String(logFieldDestinationConstant, service.destination.Label()),
	)

	documents, readError := service.source.Collection(executionContext, collectionName)
	if readError != nil {
		outcome.Failure = fmt.Errorf(collectionReadErrorTemplateConstant, collectionName, readError)
		return outcome
	}
	outcome.DocumentsRead = len(documents)

	service.logger.Info(
		documentsFoundMessageConstant,
		zap.String(logFieldCollectionConstant, collectionName),
		zap.Int(logFieldCountConstant, len(documents)),
	)

	for _, document := range documents {
		writeError := service.destination.Upsert(executionContext, collectionName, document.ID, document.Fields)
		if writeError != nil {
			outcome.Failure = fmt.Errorf(documentWriteErrorTemplateConstant, collectionName, document.ID, writeError)
			return outcome
		}
		outcome.Migrated++
		if outcome.Migrated%progressInterval == 0 {
			service.logger.Info(
				migrationProgressMessageConstant,
				zap.String(logFieldCollectionConstant, collectionName),
				zap.Int(logFieldCountConstant, outcome.Migrated),
			)
		}
	}

	service.logger.Info(
		collectionMigratedMessageConstant,
		zap.String(logFieldCollectionConstant, collectionName),
		zap.Int(logFieldCountConstant, outcome.Migrated),
	)
	return outcome
}
