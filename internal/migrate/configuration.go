package migrate

import (
	"strings"

	"github.com/temirov/firestore_scripts/internal/admins"
)

const (
	defaultSourceDatabaseConstant      = "production"
	defaultDestinationDatabaseConstant = "development"
	defaultProgressIntervalConstant    = 10
	defaultAdminEmailConstant          = "ganapathiraj@gmail.com"
	defaultAdminRoleConstant           = "SUPER_ADMIN"
)

var (
	defaultCollectionNames = []string{
		"programs",
		"program_banners",
		"consultants",
		"sathsangs",
		"online_meetings",
		"schedules",
		"programTypes",
	}
	defaultAdminPermissions = []string{
		"CONFIGURATION",
		"PROGRAM_MANAGEMENT",
		"PROGRAM_TYPES",
		"MANAGE_USERS",
		"PROGRAM_CONVERSATIONS",
		"SCHEDULE_MANAGEMENT",
		"CONSULTATION_MANAGEMENT",
		"ADMIN_REVIEW",
	}
)

// CommandConfiguration captures persisted configuration for collection migration.
type CommandConfiguration struct {
	Source           string        `mapstructure:"source"`
	Destination      string        `mapstructure:"destination"`
	Collections      []string      `mapstructure:"collections"`
	ProgressInterval int           `mapstructure:"progress_interval"`
	AdminCollection  string        `mapstructure:"admin_collection"`
	Admin            admins.Record `mapstructure:"admin"`
}

// DefaultCommandConfiguration returns the production to development migration.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Source:           defaultSourceDatabaseConstant,
		Destination:      defaultDestinationDatabaseConstant,
		Collections:      append([]string{}, defaultCollectionNames...),
		ProgressInterval: defaultProgressIntervalConstant,
		AdminCollection:  admins.DefaultCollectionName,
		Admin: admins.Record{
			Email:       defaultAdminEmailConstant,
			Role:        defaultAdminRoleConstant,
			Permissions: append([]string{}, defaultAdminPermissions...),
		},
	}
}

// Sanitize trims configured values, drops empty or repeated collection names, and restores defaults for empty values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := CommandConfiguration{
		Source:           strings.TrimSpace(configuration.Source),
		Destination:      strings.TrimSpace(configuration.Destination),
		Collections:      sanitizeCollectionNames(configuration.Collections),
		ProgressInterval: configuration.ProgressInterval,
		AdminCollection:  strings.TrimSpace(configuration.AdminCollection),
		Admin:            configuration.Admin.Sanitize(),
	}

	if len(sanitized.Source) == 0 {
		sanitized.Source = defaults.Source
	}
	if len(sanitized.Destination) == 0 {
		sanitized.Destination = defaults.Destination
	}
	if sanitized.Collections == nil {
		sanitized.Collections = defaults.Collections
	}
	if sanitized.ProgressInterval <= 0 {
		sanitized.ProgressInterval = defaults.ProgressInterval
	}
	if len(sanitized.AdminCollection) == 0 {
		sanitized.AdminCollection = defaults.AdminCollection
	}
	if len(sanitized.Admin.Email) == 0 && len(sanitized.Admin.Role) == 0 {
		sanitized.Admin = defaults.Admin
	}

	return sanitized
}

func sanitizeCollectionNames(collectionNames []string) []string {
	var sanitized []string
	seen := make(map[string]struct{}, len(collectionNames))
	for _, collectionName := range collectionNames {
		trimmedName := strings.TrimSpace(collectionName)
		if len(trimmedName) == 0 {
			continue
		}
		if _, exists := seen[trimmedName]; exists {
			continue
		}
		seen[trimmedName] = struct{}{}
		sanitized = append(sanitized, trimmedName)
	}
	return sanitized
}
