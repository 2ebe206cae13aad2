package docstore

import (
	"fmt"
	"sort"
	"strings"
	"time"

	pathutils "github.com/temirov/firestore_scripts/internal/utils/path"
)

const (
	backendFieldNameConstant           = "backend"
	mongoURIFieldNameConstant          = "mongodb_uri"
	databaseNameFieldNameConstant      = "database_name"
	credentialsFieldNameConstant       = "credentials_file"
	databaseReferenceFieldNameConstant = "database"
	requiredValueMessageConstant       = "value required"
	unknownDatabaseMessageTemplate     = "unknown database %q (configured: %s)"
	unsupportedBackendMessageTemplate  = "unsupported backend %q"
	conflictingCredentialsMessage      = "set either credentials_file or credentials_json, not both"
	invalidInputErrorTemplateConstant  = "%s: %s"
	configuredNamesSeparatorConstant   = ", "
	noConfiguredNamesPlaceholder       = "none"
)

// Backend identifies the database technology behind a Store.
type Backend string

// Supported backends.
const (
	BackendFirestore Backend = Backend("firestore")
	BackendMongoDB   Backend = Backend("mongodb")
	BackendMemory    Backend = Backend("memory")
)

var configurationHomeExpander = pathutils.NewHomeExpander()

// InvalidInputError describes a database configuration validation failure.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// InstanceConfiguration describes how to reach one named database instance.
type InstanceConfiguration struct {
	Label           string        `mapstructure:"label"`
	Backend         string        `mapstructure:"backend"`
	ProjectID       string        `mapstructure:"project_id"`
	DatabaseID      string        `mapstructure:"database_id"`
	CredentialsFile string        `mapstructure:"credentials_file"`
	CredentialsJSON string        `mapstructure:"credentials_json"`
	MongoDBURI      string        `mapstructure:"mongodb_uri"`
	DatabaseName    string        `mapstructure:"database_name"`
	SeedFile        string        `mapstructure:"seed_file"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
}

// Sanitize trims configured values, normalizes the backend name, and expands home-relative paths.
func (configuration InstanceConfiguration) Sanitize() InstanceConfiguration {
	sanitized := configuration
	sanitized.Label = strings.TrimSpace(configuration.Label)
	sanitized.Backend = strings.ToLower(strings.TrimSpace(configuration.Backend))
	if len(sanitized.Backend) == 0 {
		sanitized.Backend = string(BackendFirestore)
	}
	sanitized.ProjectID = strings.TrimSpace(configuration.ProjectID)
	sanitized.DatabaseID = strings.TrimSpace(configuration.DatabaseID)
	sanitized.CredentialsFile = configurationHomeExpander.Expand(strings.TrimSpace(configuration.CredentialsFile))
	sanitized.CredentialsJSON = strings.TrimSpace(configuration.CredentialsJSON)
	sanitized.MongoDBURI = strings.TrimSpace(configuration.MongoDBURI)
	sanitized.DatabaseName = strings.TrimSpace(configuration.DatabaseName)
	sanitized.SeedFile = configurationHomeExpander.Expand(strings.TrimSpace(configuration.SeedFile))
	if sanitized.ConnectTimeout < 0 {
		sanitized.ConnectTimeout = 0
	}
	return sanitized
}

// Validate reports the first missing or conflicting value for the configured backend.
func (configuration InstanceConfiguration) Validate() error {
	switch Backend(configuration.Backend) {
	case BackendFirestore:
		if len(configuration.CredentialsFile) > 0 && len(configuration.CredentialsJSON) > 0 {
			return InvalidInputError{FieldName: credentialsFieldNameConstant, Message: conflictingCredentialsMessage}
		}
		return nil
	case BackendMongoDB:
		if len(configuration.MongoDBURI) == 0 {
			return InvalidInputError{FieldName: mongoURIFieldNameConstant, Message: requiredValueMessageConstant}
		}
		if len(configuration.DatabaseName) == 0 {
			return InvalidInputError{FieldName: databaseNameFieldNameConstant, Message: requiredValueMessageConstant}
		}
		return nil
	case BackendMemory:
		return nil
	default:
		return InvalidInputError{
			FieldName: backendFieldNameConstant,
			Message:   fmt.Sprintf(unsupportedBackendMessageTemplate, configuration.Backend),
		}
	}
}

// Catalog maps database names, as referenced by tool configuration, to their instance configuration.
type Catalog map[string]InstanceConfiguration

// Resolve looks up a database by name, case-insensitively, and labels it with that name when no label is set.
func (catalog Catalog) Resolve(databaseName string) (InstanceConfiguration, error) {
	normalizedName := strings.ToLower(strings.TrimSpace(databaseName))
	if len(normalizedName) == 0 {
		return InstanceConfiguration{}, InvalidInputError{FieldName: databaseReferenceFieldNameConstant, Message: requiredValueMessageConstant}
	}

	for configuredName, configuration := range catalog {
		if strings.ToLower(strings.TrimSpace(configuredName)) != normalizedName {
			continue
		}
		resolved := configuration.Sanitize()
		if len(resolved.Label) == 0 {
			resolved.Label = normalizedName
		}
		return resolved, nil
	}

	return InstanceConfiguration{}, InvalidInputError{
		FieldName: databaseReferenceFieldNameConstant,
		Message:   fmt.Sprintf(unknownDatabaseMessageTemplate, databaseName, catalog.describeNames()),
	}
}

func (catalog Catalog) describeNames() string {
	if len(catalog) == 0 {
		return noConfiguredNamesPlaceholder
	}
	names := make([]string, 0, len(catalog))
	for configuredName := range catalog {
		names = append(names, configuredName)
	}
	sort.Strings(names)
	return strings.Join(names, configuredNamesSeparatorConstant)
}
