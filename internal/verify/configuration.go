package verify

import "strings"

const (
	defaultDatabaseConstant   = "production"
	defaultCollectionConstant = "books"
)

// CommandConfiguration captures persisted configuration for document verification.
type CommandConfiguration struct {
	Database    string   `mapstructure:"database"`
	Collection  string   `mapstructure:"collection"`
	DocumentIDs []string `mapstructure:"document_ids"`
	Format      string   `mapstructure:"format"`
}

// DefaultCommandConfiguration returns the two books checked after the title rename.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Database:    defaultDatabaseConstant,
		Collection:  defaultCollectionConstant,
		DocumentIDs: []string{"12q2kiiMYPIiWrWbea2k", "ujJ5gfyiZGozrERjyoff"},
		Format:      string(FormatJSON),
	}
}

// Sanitize trims configured values and restores defaults for empty values.
// Repeated document ids are kept so each is fetched as requested.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := CommandConfiguration{
		Database:   strings.TrimSpace(configuration.Database),
		Collection: strings.TrimSpace(configuration.Collection),
		Format:     strings.ToLower(strings.TrimSpace(configuration.Format)),
	}
	for _, documentID := range configuration.DocumentIDs {
		trimmedDocumentID := strings.TrimSpace(documentID)
		if len(trimmedDocumentID) == 0 {
			continue
		}
		sanitized.DocumentIDs = append(sanitized.DocumentIDs, trimmedDocumentID)
	}

	if len(sanitized.Database) == 0 {
		sanitized.Database = defaults.Database
	}
	if len(sanitized.Collection) == 0 {
		sanitized.Collection = defaults.Collection
	}
	if configuration.DocumentIDs == nil {
		sanitized.DocumentIDs = defaults.DocumentIDs
	}
	if len(sanitized.Format) == 0 {
		sanitized.Format = defaults.Format
	}
	return sanitized
}
