package admins

import (
	"strings"
	"time"

	"github.com/temirov/firestore_scripts/internal/docstore"
)

const (
	// DefaultCollectionName is the collection holding administrator documents.
	DefaultCollectionName = "admins"

	recordEmailFieldConstant             = "email"
	recordRoleFieldConstant              = "role"
	recordPermissionsFieldConstant       = "permissions"
	recordTimestampFieldConstant         = "timestamp"
	grantEmailFieldConstant              = "email"
	grantDisplayNameFieldConstant        = "displayName"
	grantGrantedAtFieldConstant          = "grantedAt"
	grantGrantedByFieldConstant          = "grantedBy"
	recordEmailRequiredMessageConstant   = "admin email is required"
	recordRoleRequiredMessageConstant    = "admin role is required"
	grantUserRequiredMessageConstant     = "admin user id is required"
	grantEmailRequiredMessageConstant    = "admin email is required"
	recordEmailFieldNameConstant         = "email"
	recordRoleFieldNameConstant          = "role"
	grantUserIdentifierFieldNameConstant = "user_id"
)

// Record describes a role-based administrator keyed by email address.
type Record struct {
	Email       string   `mapstructure:"email"`
	Role        string   `mapstructure:"role"`
	Permissions []string `mapstructure:"permissions"`
}

// Sanitize trims values and drops empty permissions.
func (record Record) Sanitize() Record {
	sanitized := Record{
		Email: strings.TrimSpace(record.Email),
		Role:  strings.TrimSpace(record.Role),
	}
	for _, permission := range record.Permissions {
		trimmedPermission := strings.TrimSpace(permission)
		if len(trimmedPermission) == 0 {
			continue
		}
		sanitized.Permissions = append(sanitized.Permissions, trimmedPermission)
	}
	return sanitized
}

// Validate ensures the record can be keyed and written.
func (record Record) Validate() error {
	if len(record.Email) == 0 {
		return docstore.InvalidInputError{FieldName: recordEmailFieldNameConstant, Message: recordEmailRequiredMessageConstant}
	}
	if len(record.Role) == 0 {
		return docstore.InvalidInputError{FieldName: recordRoleFieldNameConstant, Message: recordRoleRequiredMessageConstant}
	}
	return nil
}

// DocumentID returns the key of the record document.
func (record Record) DocumentID() string {
	return record.Email
}

// Fields renders the record stamped with writeTime.
func (record Record) Fields(writeTime time.Time) docstore.Fields {
	permissions := make([]any, 0, len(record.Permissions))
	for _, permission := range record.Permissions {
		permissions = append(permissions, permission)
	}
	return docstore.Fields{
		recordEmailFieldConstant:       record.Email,
		recordRoleFieldConstant:        record.Role,
		recordPermissionsFieldConstant: permissions,
		recordTimestampFieldConstant:   writeTime.UTC(),
	}
}

// Grant describes an administrator keyed by authentication user id.
type Grant struct {
	UserID      string
	Email       string
	DisplayName string
	GrantedBy   string
}

// Sanitize trims every value.
func (grant Grant) Sanitize() Grant {
	return Grant{
		UserID:      strings.TrimSpace(grant.UserID),
		Email:       strings.TrimSpace(grant.Email),
		DisplayName: strings.TrimSpace(grant.DisplayName),
		GrantedBy:   strings.TrimSpace(grant.GrantedBy),
	}
}

// Validate ensures the grant can be keyed and written.
func (grant Grant) Validate() error {
	if len(grant.UserID) == 0 {
		return docstore.InvalidInputError{FieldName: grantUserIdentifierFieldNameConstant, Message: grantUserRequiredMessageConstant}
	}
	if len(grant.Email) == 0 {
		return docstore.InvalidInputError{FieldName: recordEmailFieldNameConstant, Message: grantEmailRequiredMessageConstant}
	}
	return nil
}

// Fields renders the grant stamped with grantTime.
func (grant Grant) Fields(grantTime time.Time) docstore.Fields {
	return docstore.Fields{
		grantEmailFieldConstant:       grant.Email,
		grantDisplayNameFieldConstant: grant.DisplayName,
		grantGrantedAtFieldConstant:   grantTime.UTC(),
		grantGrantedByFieldConstant:   grant.GrantedBy,
	}
}
