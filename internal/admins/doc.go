// Package admins writes administrator documents: the role-based admin record
// seeded after a collection migration and the per-user admin grant issued by
// the admin-grant command.
package admins
