// Package security provides the admin-side request protections of the setup
// wizard: request nonces, admin password hashing and form input sanitising.
package security
