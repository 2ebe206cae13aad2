package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/firestore_scripts/internal/dependencies"
	"github.com/temirov/firestore_scripts/internal/docstore"
)

const (
	serviceStoreMissingMessageConstant = "admin store not configured"
	seedErrorTemplateConstant          = "unable to seed admin record %s: %w"
	grantErrorTemplateConstant         = "unable to grant admin access to %s: %w"
	adminSeededMessageConstant         = "Admin record written"
	adminGrantedMessageConstant        = "Admin grant written"
	logFieldCollectionConstant         = "collection"
	logFieldDocumentIdentifierConstant = "document_id"
	logFieldEmailConstant              = "email"
	logFieldRoleConstant               = "role"
	logFieldPermissionsConstant        = "permissions"
)

// ErrStoreNotConfigured indicates the service was constructed without a store.
var ErrStoreNotConfigured = errors.New(serviceStoreMissingMessageConstant)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	Store  docstore.Store
	Clock  dependencies.Clock
	Logger *zap.Logger
}

// Service writes administrator documents to a store.
type Service struct {
	store  docstore.Store
	clock  dependencies.Clock
	logger *zap.Logger
}

// NewService constructs a Service.
func NewService(serviceDependencies ServiceDependencies) (*Service, error) {
	if serviceDependencies.Store == nil {
		return nil, ErrStoreNotConfigured
	}
	logger := serviceDependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  serviceDependencies.Store,
		clock:  dependencies.ResolveClock(serviceDependencies.Clock),
		logger: logger,
	}, nil
}

// SeedRecord upserts record at collection/<email>, replacing any existing document.
func (service *Service) SeedRecord(executionContext context.Context, collection string, record Record) error {
	sanitizedRecord := record.Sanitize()
	if validationError := sanitizedRecord.Validate(); validationError != nil {
		return fmt.Errorf(seedErrorTemplateConstant, sanitizedRecord.Email, validationError)
	}

	targetCollection := resolveCollection(collection)
	upsertError := service.store.Upsert(executionContext, targetCollection, sanitizedRecord.DocumentID(), sanitizedRecord.Fields(service.clock.Now()))
	if upsertError != nil {
		return fmt.Errorf(seedErrorTemplateConstant, sanitizedRecord.Email, upsertError)
	}

	service.logger.Info(
		adminSeededMessageConstant,
		zap.String(logFieldCollectionConstant, targetCollection),
		zap.String(logFieldEmailConstant, sanitizedRecord.Email),
		zap.String(logFieldRoleConstant, sanitizedRecord.Role),
		zap.Strings(logFieldPermissionsConstant, sanitizedRecord.Permissions),
	)
	return nil
}

// Grant upserts grant at collection/<user id>, replacing any existing document.
func (service *Service) Grant(executionContext context.Context, collection string, grant Grant) error {
	sanitizedGrant := grant.Sanitize()
	if validationError := sanitizedGrant.Validate(); validationError != nil {
		return fmt.Errorf(grantErrorTemplateConstant, sanitizedGrant.Email, validationError)
	}

	targetCollection := resolveCollection(collection)
	upsertError := service.store.Upsert(executionContext, targetCollection, sanitizedGrant.UserID, sanitizedGrant.Fields(service.clock.Now()))
	if upsertError != nil {
		return fmt.Errorf(grantErrorTemplateConstant, sanitizedGrant.Email, upsertError)
	}

	service.logger.Info(
		adminGrantedMessageConstant,
		zap.String(logFieldCollectionConstant, targetCollection),
		zap.String(logFieldDocumentIdentifierConstant, sanitizedGrant.UserID),
		zap.String(logFieldEmailConstant, sanitizedGrant.Email),
	)
	return nil
}

func resolveCollection(collection string) string {
	trimmedCollection := strings.TrimSpace(collection)
	if len(trimmedCollection) == 0 {
		return DefaultCollectionName
	}
	return trimmedCollection
}
