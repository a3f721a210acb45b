package domain

import "time"

// IdentityUser is the local model of an Identity Toolkit or Firebase user.
//
// On update, empty strings and nil flags leave the stored value unchanged.
// Password is write-only: it is never returned by reads.
type IdentityUser struct {
	ID            string    `json:"id"`
	Email         string    `json:"email,omitempty"`
	EmailVerified *bool     `json:"email_verified,omitempty"`
	DisplayName   string    `json:"display_name,omitempty"`
	PhotoURL      string    `json:"photo_url,omitempty"`
	PhoneNumber   string    `json:"phone_number,omitempty"`
	Disabled      *bool     `json:"disabled,omitempty"`
	Password      string    `json:"password,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitzero"`
	LastLoginAt   time.Time `json:"last_login_at,omitzero"`
}

// ClearPassword drops the write-only password.
func (u *IdentityUser) ClearPassword() { u.Password = "" }

// Flag returns a pointer to b, for the optional IdentityUser flags.
func Flag(b bool) *bool { return &b }

// FlagValue returns the flag, treating nil as false.
func FlagValue(p *bool) bool { return p != nil && *p }

// TokenClaims are the verified claims of an ID token or session cookie.
type TokenClaims struct {
	UserID     string         `json:"user_id"`
	Email      string         `json:"email,omitempty"`
	ProviderID string         `json:"provider_id,omitempty"`
	Issuer     string         `json:"issuer"`
	Audience   string         `json:"audience"`
	IssuedAt   time.Time      `json:"issued_at"`
	ExpiresAt  time.Time      `json:"expires_at"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// Expired returns true if the claims are past their expiry at now.
func (c *TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
