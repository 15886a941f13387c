// Package access decides what a principal may do and see. Every usecase
// asks this package; nothing else compares role strings.
package access

import (
	"strings"

	"loan-management-backend/internal/domain/apperr"
	"loan-management-backend/internal/domain/user"
)

// Principal is the authenticated caller as vouched for by the identity provider.
type Principal struct {
	ID   string
	Role user.Role
}

func (p Principal) IsAdmin() bool { return p.Role == user.RoleAdmin }

type Capability string

const (
	SubmitLoan       Capability = "loan:submit"
	DecideLoan       Capability = "loan:decide"
	ListAllLoans     Capability = "loan:list_all"
	CreatePayment    Capability = "payment:create"
	ListAllPayments  Capability = "payment:list_all"
	ViewOwnStats     Capability = "stats:own"
	ViewAdminStats   Capability = "stats:admin"
	ManageUsers      Capability = "user:manage"
	ViewOwnRecords   Capability = "record:own"
	UpdateOwnProfile Capability = "profile:update"
)

var grants = map[user.Role]map[Capability]bool{
	user.RoleUser: {
		SubmitLoan:       true,
		CreatePayment:    true,
		ViewOwnStats:     true,
		ViewOwnRecords:   true,
		UpdateOwnProfile: true,
	},
	user.RoleAdmin: {
		DecideLoan:       true,
		ListAllLoans:     true,
		ListAllPayments:  true,
		ViewOwnStats:     true,
		ViewAdminStats:   true,
		ManageUsers:      true,
		ViewOwnRecords:   true,
		UpdateOwnProfile: true,
	},
}

var (
	errNoPrincipal = apperr.Forbidden("no authenticated principal")
	errNotOwner    = apperr.Forbidden("access denied")
)

// Can reports whether p holds c.
func Can(p Principal, c Capability) bool {
	if strings.TrimSpace(p.ID) == "" {
		return false
	}
	return grants[p.Role][c]
}

// Require is Can as an error: nil or a Forbidden error.
func Require(p Principal, c Capability) error {
	if strings.TrimSpace(p.ID) == "" {
		return errNoPrincipal
	}
	if !grants[p.Role][c] {
		if grants[user.RoleAdmin][c] {
			return apperr.Forbidden("admin access required")
		}
		return apperr.Forbidden("operation not permitted for role %s", p.Role)
	}
	return nil
}

// CanRead reports whether p may observe a record owned by ownerID.
// Ownership is exact id equality; admins see everything.
func CanRead(p Principal, ownerID string) bool {
	if strings.TrimSpace(p.ID) == "" {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	return p.ID == ownerID
}

// RequireRead is CanRead as an error.
func RequireRead(p Principal, ownerID string) error {
	if strings.TrimSpace(p.ID) == "" {
		return errNoPrincipal
	}
	if !CanRead(p, ownerID) {
		return errNotOwner
	}
	return nil
}

// Scope returns the owner restriction for listings: empty for admins
// (everything) and the caller's own id otherwise.
func Scope(p Principal) string {
	if p.IsAdmin() {
		return ""
	}
	return p.ID
}
