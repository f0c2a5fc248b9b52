package services

import "rentique/internal/models"

// Actor is the verified identity a request acts under, as resolved by
// the access gate. A zero Actor means an unauthenticated request.
type Actor struct {
	ID   string
	Role string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// IsAuthenticated reports whether the request carried a verified
// identity.
func (a Actor) IsAuthenticated() bool { return a.ID != "" }
