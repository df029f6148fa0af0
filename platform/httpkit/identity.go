// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Platform roles carried in the access token's "roles" claim.
const (
	// RoleJournalist marks members of a newsroom who publish notices
	// and run expert outreach.
	RoleJournalist = "journalist"
	// RoleExpert marks directory members who receive contact requests.
	RoleExpert = "expert"
)

// Identity represents the authenticated user's identity.
// This interface abstracts identity extraction from the web framework,
// allowing handlers to access user information without depending on Gin.
type Identity interface {
	// UserID returns the authenticated user's ID.
	UserID() uuid.UUID
	// HasRole checks if the user carries a specific role.
	HasRole(role string) bool
	// IsJournalist reports whether the user may manage notices.
	IsJournalist() bool
	// IsAuthenticated returns true if the user is authenticated.
	IsAuthenticated() bool
}

type tokenIdentity struct {
	id    uuid.UUID
	roles []string
	valid bool
}

func (t *tokenIdentity) UserID() uuid.UUID { return t.id }

func (t *tokenIdentity) HasRole(role string) bool {
	for _, r := range t.roles {
		if r == role {
			return true
		}
	}
	return false
}

func (t *tokenIdentity) IsJournalist() bool { return t.HasRole(RoleJournalist) }

func (t *tokenIdentity) IsAuthenticated() bool { return t.valid }

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user info is not present.
func GetIdentity(c *gin.Context) Identity {
	raw, ok := c.Get(ContextUserIDKey)
	if !ok {
		return &tokenIdentity{}
	}

	id, ok := raw.(uuid.UUID)
	if !ok {
		return &tokenIdentity{}
	}

	var roles []string
	if rawRoles, ok := c.Get(ContextRolesKey); ok {
		roles, _ = rawRoles.([]string)
	}

	return &tokenIdentity{id: id, roles: roles, valid: true}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the user is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}
