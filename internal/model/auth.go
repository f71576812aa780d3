package model

import "github.com/golang-jwt/jwt/v5"

// OwnerClaims are the JWT claims identifying the acting user.
// The owner id is carried in the standard "sub" claim.
type OwnerClaims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// OwnerID returns the opaque owner identifier
func (c *OwnerClaims) OwnerID() string {
	return c.Subject
}
