package admins

import "strings"

const (
	defaultGrantDatabaseConstant    = "production"
	defaultGrantUserIDConstant      = "aJU4taNo52faHry49mvBoRMI74i2"
	defaultGrantEmailConstant       = "ganapathy.angappan@gmail.com"
	defaultGrantDisplayNameConstant = "Ganapathy Angappan"
	defaultGrantedByConstant        = "firestore-scripts admin-grant"
)

// CommandConfiguration captures persisted configuration for the admin-grant command.
type CommandConfiguration struct {
	Database    string `mapstructure:"database"`
	Collection  string `mapstructure:"collection"`
	UserID      string `mapstructure:"user_id"`
	Email       string `mapstructure:"email"`
	DisplayName string `mapstructure:"display_name"`
	GrantedBy   string `mapstructure:"granted_by"`
}

// DefaultCommandConfiguration returns the grant issued when nothing is configured.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Database:    defaultGrantDatabaseConstant,
		Collection:  DefaultCollectionName,
		UserID:      defaultGrantUserIDConstant,
		Email:       defaultGrantEmailConstant,
		DisplayName: defaultGrantDisplayNameConstant,
		GrantedBy:   defaultGrantedByConstant,
	}
}

// Sanitize trims values and restores defaults for the database and collection.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := CommandConfiguration{
		Database:    strings.TrimSpace(configuration.Database),
		Collection:  strings.TrimSpace(configuration.Collection),
		UserID:      strings.TrimSpace(configuration.UserID),
		Email:       strings.TrimSpace(configuration.Email),
		DisplayName: strings.TrimSpace(configuration.DisplayName),
		GrantedBy:   strings.TrimSpace(configuration.GrantedBy),
	}
	if len(sanitized.Database) == 0 {
		sanitized.Database = defaults.Database
	}
	if len(sanitized.Collection) == 0 {
		sanitized.Collection = defaults.Collection
	}
	if len(sanitized.GrantedBy) == 0 {
		sanitized.GrantedBy = defaults.GrantedBy
	}
	return sanitized
}

// Grant converts the configuration into a grant.
func (configuration CommandConfiguration) Grant() Grant {
	return Grant{
		UserID:      configuration.UserID,
		Email:       configuration.Email,
		DisplayName: configuration.DisplayName,
		GrantedBy:   configuration.GrantedBy,
	}
}
