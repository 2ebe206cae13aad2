package docstore

import (
	"context"
	"fmt"
)

const (
	openErrorTemplateConstant  = "unable to open %s database %q: %w"
	seedErrorTemplateConstant  = "unable to seed memory database %q: %w"
	unsupportedBackendTemplate = "%w: %s"
)

// Opener connects to a configured database instance.
type Opener func(executionContext context.Context, configuration InstanceConfiguration) (Store, error)

// Open connects to the configured instance and verifies it is reachable before returning.
func Open(executionContext context.Context, configuration InstanceConfiguration) (Store, error) {
	sanitized := configuration.Sanitize()
	if validationError := sanitized.Validate(); validationError != nil {
		return nil, validationError
	}

	probeContext := executionContext
	if sanitized.ConnectTimeout > 0 {
		var cancelProbe context.CancelFunc
		probeContext, cancelProbe = context.WithTimeout(executionContext, sanitized.ConnectTimeout)
		defer cancelProbe()
	}

	switch Backend(sanitized.Backend) {
	case BackendFirestore:
		store, openError := openFirestore(executionContext, probeContext, sanitized)
		if openError != nil {
			return nil, wrapOpenError(sanitized, openError)
		}
		return store, nil
	case BackendMongoDB:
		store, openError := openMongo(executionContext, probeContext, sanitized)
		if openError != nil {
			return nil, wrapOpenError(sanitized, openError)
		}
		return store, nil
	case BackendMemory:
		return openMemory(sanitized)
	default:
		return nil, fmt.Errorf(unsupportedBackendTemplate, ErrUnsupportedBackend, sanitized.Backend)
	}
}

func openMemory(configuration InstanceConfiguration) (*MemoryStore, error) {
	store := NewMemoryStore(configuration.Label, nil)
	if len(configuration.SeedFile) == 0 {
		return store, nil
	}

	seededCollections, seedError := LoadSeedFile(configuration.SeedFile)
	if seedError != nil {
		return nil, fmt.Errorf(seedErrorTemplateConstant, configuration.Label, seedError)
	}
	for collectionName, documents := range seededCollections {
		store.Seed(collectionName, documents...)
	}
	return store, nil
}

func wrapOpenError(configuration InstanceConfiguration, cause error) error {
	return fmt.Errorf(openErrorTemplateConstant, configuration.Backend, configuration.Label, OperationError{
		Operation: OperationOpen,
		Target:    configuration.Label,
		Cause:     cause,
	})
}
