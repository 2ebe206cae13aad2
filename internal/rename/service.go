package rename

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/firestore_scripts/internal/docstore"
)

const (
	storeMissingMessageConstant        = "rename store not configured"
	correctionErrorTemplateConstant    = "unable to correct title of %s/%s: %w"
	queryErrorTemplateConstant         = "unable to query %s where %s == %q: %w"
	commitErrorTemplateConstant        = "rename batch %d failed after committing %d of %d renames: %w"
	correctionAppliedMessageConstant   = "Title corrected"
	documentsFoundMessageConstant      = "Documents found"
	renameStagedMessageConstant        = "Title rename staged"
	renameSkippedMessageConstant       = "Title rename skipped"
	batchCommittedMessageConstant      = "Rename batch committed"
	renameFinishedMessageConstant      = "Title rename finished"
	nothingToRenameMessageConstant     = "No titles needed renaming"
	logFieldCollectionConstant         = "collection"
	logFieldDocumentIdentifierConstant = "document_id"
	logFieldCountConstant              = "count"
	logFieldCurrentTitleConstant       = "current_title"
	logFieldNewTitleConstant           = "new_title"
	logFieldReasonConstant             = "reason"
	logFieldBatchConstant              = "batch"
	logFieldFilterFieldConstant        = "filter_field"
	logFieldFilterValueConstant        = "filter_value"
	titleValueTemplateConstant         = "%v"
)

var errStoreMissing = errors.New(storeMissingMessageConstant)

// ServiceDependencies describes required collaborators for the rewrite.
type ServiceDependencies struct {
	Logger *zap.Logger
	Store  docstore.Store
}

// Options configures one rewrite run.
type Options struct {
	Collection  string
	FilterField string
	FilterValue string
	TitleField  string
	StampField  string
	BatchLimit  int
	Corrections []Correction
	Table       Table
}

// Decision records what happened to one queried document.
// NewTitle is empty when the document was skipped for Reason.
type Decision struct {
	DocumentID   string
	CurrentTitle string
	NewTitle     string
	Reason       SkipReason
}

// Renamed reports whether the document was staged for a rename.
func (decision Decision) Renamed() bool {
	return len(decision.NewTitle) > 0
}

// Report captures the observable outcome of a rewrite run.
type Report struct {
	Corrections    []Correction
	DocumentsFound int
	Decisions      []Decision
	Committed      int
}

// Renames returns the staged renames in query order.
func (report Report) Renames() []Decision {
	var renames []Decision
	for _, decision := range report.Decisions {
		if decision.Renamed() {
			renames = append(renames, decision)
		}
	}
	return renames
}

// Service applies title corrections and table-driven renames.
type Service struct {
	logger *zap.Logger
	store  docstore.Store
}

// NewService constructs a Service with the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Store == nil {
		return nil, errStoreMissing
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger, store: dependencies.Store}, nil
}

// Execute applies corrections, stages renames for the filtered documents, and commits them in chunks.
// The report is populated up to the point of failure.
func (service *Service) Execute(executionContext context.Context, options Options) (Report, error) {
	report := Report{}
	options = normalizeOptions(options)

	for _, correction := range options.Corrections {
		updateError := service.store.Update(executionContext, options.Collection, correction.DocumentID, docstore.Fields{
			options.TitleField: correction.Title,
			options.StampField: docstore.ServerTimestamp,
		})
		if updateError != nil {
			return report, fmt.Errorf(correctionErrorTemplateConstant, options.Collection, correction.DocumentID, updateError)
		}
		report.Corrections = append(report.Corrections, correction)
		service.logger.Info(
			correctionAppliedMessageConstant,
			zap.String(logFieldCollectionConstant, options.Collection),
			zap.String(logFieldDocumentIdentifierConstant, correction.DocumentID),
			zap.String(logFieldNewTitleConstant, correction.Title),
		)
	}

	documents, queryError := service.store.QueryEquals(executionContext, options.Collection, options.FilterField, options.FilterValue)
	if queryError != nil {
		return report, fmt.Errorf(queryErrorTemplateConstant, options.Collection, options.FilterField, options.FilterValue, queryError)
	}
	report.DocumentsFound = len(documents)
	service.logger.Info(
		documentsFoundMessageConstant,
		zap.String(logFieldCollectionConstant, options.Collection),
		zap.String(logFieldFilterFieldConstant, options.FilterField),
		zap.String(logFieldFilterValueConstant, options.FilterValue),
		zap.Int(logFieldCountConstant, len(documents)),
	)

	for _, document := range documents {
		currentTitle, isText := document.Fields[options.TitleField].(string)
		if !isText {
			service.recordSkip(&report, document, fmt.Sprintf(titleValueTemplateConstant, document.Fields[options.TitleField]), SkipReasonNoMapping)
			continue
		}
		newTitle, reason, renamed := options.Table.Resolve(currentTitle)
		if !renamed {
			service.recordSkip(&report, document, currentTitle, reason)
			continue
		}
		report.Decisions = append(report.Decisions, Decision{DocumentID: document.ID, CurrentTitle: currentTitle, NewTitle: newTitle})
		service.logger.Debug(
			renameStagedMessageConstant,
			zap.String(logFieldDocumentIdentifierConstant, document.ID),
			zap.String(logFieldCurrentTitleConstant, currentTitle),
			zap.String(logFieldNewTitleConstant, newTitle),
		)
	}

	renames := report.Renames()
	if len(renames) == 0 {
		service.logger.Info(nothingToRenameMessageConstant, zap.String(logFieldCollectionConstant, options.Collection))
		return report, nil
	}

	if commitError := service.commitRenames(executionContext, options, renames, &report); commitError != nil {
		return report, commitError
	}

	service.logger.Info(
		renameFinishedMessageConstant,
		zap.String(logFieldCollectionConstant, options.Collection),
		zap.Int(logFieldCountConstant, report.Committed),
	)
	return report, nil
}

func (service *Service) commitRenames(executionContext context.Context, options Options, renames []Decision, report *Report) error {
	for chunkStart, chunkNumber := 0, 1; chunkStart < len(renames); chunkStart, chunkNumber = chunkStart+options.BatchLimit, chunkNumber+1 {
		chunkEnd := min(chunkStart+options.BatchLimit, len(renames))

		batch := service.store.NewBatch()
		for _, rename := range renames[chunkStart:chunkEnd] {
			batch.Update(options.Collection, rename.DocumentID, docstore.Fields{
				options.TitleField: rename.NewTitle,
				options.StampField: docstore.ServerTimestamp,
			})
		}

		if commitError := batch.Commit(executionContext); commitError != nil {
			return fmt.Errorf(commitErrorTemplateConstant, chunkNumber, report.Committed, len(renames), commitError)
		}
		report.Committed += batch.Len()
		service.logger.Info(
			batchCommittedMessageConstant,
			zap.String(logFieldCollectionConstant, options.Collection),
			zap.Int(logFieldBatchConstant, chunkNumber),
			zap.Int(logFieldCountConstant, batch.Len()),
		)
	}
	return nil
}

func (service *Service) recordSkip(report *Report, document docstore.Document, currentTitle string, reason SkipReason) {
	report.Decisions = append(report.Decisions, Decision{DocumentID: document.ID, CurrentTitle: currentTitle, Reason: reason})
	service.logger.Debug(
		renameSkippedMessageConstant,
		zap.String(logFieldDocumentIdentifierConstant, document.ID),
		zap.String(logFieldCurrentTitleConstant, currentTitle),
		zap.String(logFieldReasonConstant, string(reason)),
	)
}

func normalizeOptions(options Options) Options {
	defaults := DefaultCommandConfiguration()
	if len(options.Collection) == 0 {
		options.Collection = defaults.Collection
	}
	if len(options.FilterField) == 0 {
		options.FilterField = defaults.FilterField
	}
	if len(options.TitleField) == 0 {
		options.TitleField = defaults.TitleField
	}
	if len(options.StampField) == 0 {
		options.StampField = defaults.StampField
	}
	if options.BatchLimit <= 0 {
		options.BatchLimit = DefaultBatchLimit
	}
	return options
}
