package verify

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/firestore_scripts/internal/docstore"
)

const (
	storeMissingMessageConstant        = "verify store not configured"
	outputMissingMessageConstant       = "verify output not configured"
	fetchErrorTemplateConstant         = "unable to fetch %s/%s: %w"
	writeErrorTemplateConstant         = "unable to print document %s: %w"
	documentHeaderTemplateConstant     = "[DATA] ID: %s\n"
	documentSeparatorConstant          = "---\n"
	documentPrintedMessageConstant     = "Document printed"
	verificationFinishedMessage        = "Verification finished"
	logFieldCollectionConstant         = "collection"
	logFieldDocumentIdentifierConstant = "document_id"
	logFieldPrintedConstant            = "printed"
	logFieldMissingConstant            = "missing"
)

var (
	errStoreMissing  = errors.New(storeMissingMessageConstant)
	errOutputMissing = errors.New(outputMissingMessageConstant)
)

// ServiceDependencies describes required collaborators for verification.
type ServiceDependencies struct {
	Logger   *zap.Logger
	Store    docstore.Store
	Output   io.Writer
	Renderer Renderer
}

// Options configures one verification run.
type Options struct {
	Collection  string
	DocumentIDs []string
}

// Result lists which requested documents were printed and which were absent.
type Result struct {
	Printed []string
	Missing []string
}

// Service fetches documents and prints their fields.
type Service struct {
	logger   *zap.Logger
	store    docstore.Store
	output   io.Writer
	renderer Renderer
}

// NewService constructs a Service; a nil renderer selects JSON.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Store == nil {
		return nil, errStoreMissing
	}
	if dependencies.Output == nil {
		return nil, errOutputMissing
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	renderer := dependencies.Renderer
	if renderer == nil {
		renderer = renderJSON
	}
	return &Service{logger: logger, store: dependencies.Store, output: dependencies.Output, renderer: renderer}, nil
}

// Execute fetches each document in order, printing present ones and skipping absent ones.
// The first fetch error stops the run; documents printed before it stay printed.
func (service *Service) Execute(executionContext context.Context, options Options) (Result, error) {
	result := Result{}
	for _, documentID := range options.DocumentIDs {
		document, found, fetchError := service.store.Document(executionContext, options.Collection, documentID)
		if fetchError != nil {
			return result, fmt.Errorf(fetchErrorTemplateConstant, options.Collection, documentID, fetchError)
		}
		if !found {
			result.Missing = append(result.Missing, documentID)
			continue
		}

		if printError := service.print(document); printError != nil {
			return result, printError
		}
		result.Printed = append(result.Printed, documentID)
		service.logger.Debug(
			documentPrintedMessageConstant,
			zap.String(logFieldCollectionConstant, options.Collection),
			zap.String(logFieldDocumentIdentifierConstant, documentID),
		)
	}

	service.logger.Info(
		verificationFinishedMessage,
		zap.String(logFieldCollectionConstant, options.Collection),
		zap.Strings(logFieldPrintedConstant, result.Printed),
		zap.Strings(logFieldMissingConstant, result.Missing),
	)
	return result, nil
}

func (service *Service) print(document docstore.Document) error {
	rendered, renderError := service.renderer(document.Fields)
	if renderError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, document.ID, renderError)
	}
	if _, writeError := fmt.Fprintf(service.output, documentHeaderTemplateConstant, document.ID); writeError != nil {
		return fmt.Errorf(writeErrorTemplateConstant, document.ID, writeError)
	}
	if _, writeError := service.output.Write(rendered); writeError != nil {
		return fmt.Errorf(writeErrorTemplateConstant, document.ID, writeError)
	}
	if _, writeError := io.WriteString(service.output, documentSeparatorConstant); writeError != nil {
		return fmt.Errorf(writeErrorTemplateConstant, document.ID, writeError)
	}
	return nil
}
