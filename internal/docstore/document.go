package docstore

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	documentNotFoundMessageConstant          = "document not found"
	unsupportedBackendMessageConstant        = "unsupported database backend"
	operationErrorTemplateConstant           = "%s %s failed: %s"
	operationErrorWithoutCauseTemplate       = "%s %s failed"
	referencePathSeparatorConstant           = "/"
	fullReferencePathDocumentsMarkerConstant = "/documents/"
)

// OperationName identifies a store operation in errors and logs.
type OperationName string

// Store operation enumerations.
const (
	OperationCollection  OperationName = OperationName("GetCollection")
	OperationQueryEquals OperationName = OperationName("QueryEquals")
	OperationDocument    OperationName = OperationName("GetDocument")
	OperationUpsert      OperationName = OperationName("UpsertDocument")
	OperationUpdate      OperationName = OperationName("UpdateDocument")
	OperationCommitBatch OperationName = OperationName("CommitBatch")
	OperationOpen        OperationName = OperationName("Open")
)

var (
	// ErrDocumentNotFound indicates a partial update targeted a document that does not exist.
	ErrDocumentNotFound = errors.New(documentNotFoundMessageConstant)
	// ErrUnsupportedBackend indicates the configured backend has no implementation.
	ErrUnsupportedBackend = errors.New(unsupportedBackendMessageConstant)
)

// Fields holds the field mapping of a document.
type Fields map[string]any

// Document is a single stored document addressed by its identifier.
type Document struct {
	ID     string
	Fields Fields
}

// Reference points to another document by its collection-relative path ("collection/id").
type Reference struct {
	Path string
}

type sentinelValue int

// ServerTimestamp asks the store to substitute its own write time for the field.
const ServerTimestamp sentinelValue = 1

// OperationError wraps a backend failure with the operation and target that produced it.
type OperationError struct {
	Operation OperationName
	Target    string
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorWithoutCauseTemplate, operationError.Operation, operationError.Target)
	}
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation, operationError.Target, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// Clone returns a deep copy of the field mapping.
func (fields Fields) Clone() Fields {
	if fields == nil {
		return nil
	}
	cloned := make(Fields, len(fields))
	for fieldName, fieldValue := range fields {
		cloned[fieldName] = cloneValue(fieldValue)
	}
	return cloned
}

func cloneValue(value any) any {
	switch typedValue := value.(type) {
	case Fields:
		return typedValue.Clone()
	case map[string]any:
		return map[string]any(Fields(typedValue).Clone())
	case []any:
		cloned := make([]any, len(typedValue))
		for index := range typedValue {
			cloned[index] = cloneValue(typedValue[index])
		}
		return cloned
	case []string:
		return append([]string(nil), typedValue...)
	default:
		return value
	}
}

// resolveServerTimestamps replaces every ServerTimestamp sentinel with the provided write time.
func resolveServerTimestamps(value any, writeTime time.Time) any {
	switch typedValue := value.(type) {
	case sentinelValue:
		if typedValue == ServerTimestamp {
			return writeTime
		}
		return value
	case Fields:
		resolved := make(Fields, len(typedValue))
		for fieldName, fieldValue := range typedValue {
			resolved[fieldName] = resolveServerTimestamps(fieldValue, writeTime)
		}
		return resolved
	case map[string]any:
		resolved := make(map[string]any, len(typedValue))
		for fieldName, fieldValue := range typedValue {
			resolved[fieldName] = resolveServerTimestamps(fieldValue, writeTime)
		}
		return resolved
	case []any:
		resolved := make([]any, len(typedValue))
		for index := range typedValue {
			resolved[index] = resolveServerTimestamps(typedValue[index], writeTime)
		}
		return resolved
	default:
		return value
	}
}

// relativeReferencePath trims the "projects/<p>/databases/<d>/documents/" prefix from a fully qualified path.
func relativeReferencePath(fullPath string) string {
	markerIndex := strings.Index(fullPath, fullReferencePathDocumentsMarkerConstant)
	if markerIndex < 0 {
		return strings.Trim(fullPath, referencePathSeparatorConstant)
	}
	return fullPath[markerIndex+len(fullReferencePathDocumentsMarkerConstant):]
}

func documentTarget(collectionName string, documentID string) string {
	return collectionName + referencePathSeparatorConstant + documentID
}
