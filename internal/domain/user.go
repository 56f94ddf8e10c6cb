package domain

import "time"

// Credential is the row returned by the login lookup. It carries the password
// hash and is never serialized to clients.
type Credential struct {
	UserID        int64
	FirstName     string
	LastName      string
	Email         string
	PasswordHash  string
	EmailVerified bool
	RoleIDs       string
}

// PrimaryRole returns the first role assigned to the user, which is what the
// token responses report as the user's role.
func (c *Credential) PrimaryRole() string {
	if c.RoleIDs == "" {
		return ""
	}
	return string(c.RoleIDs[0])
}

// Profile is the full user record returned by the profile endpoint.
type Profile struct {
	UserID        int64      `json:"user_id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         string     `json:"email"`
	Mobile        *string    `json:"mobile,omitempty"`
	RoleIDs       string     `json:"role_ids"`
	ProfileImage  *string    `json:"profile_image,omitempty"`
	Status        string     `json:"status"`
	EmailVerified bool       `json:"email_verified"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
}

// PrimaryRole returns the first role assigned to the user.
func (p *Profile) PrimaryRole() string {
	if p.RoleIDs == "" {
		return ""
	}
	return string(p.RoleIDs[0])
}

// UserSummary is the trimmed user object returned alongside issued tokens.
type UserSummary struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// Identity describes the caller established by the session middleware. Token
// is the raw bearer token the caller presented.
type Identity struct {
	UserID        int64
	Token         string
	Authenticated bool
}

// TokenPair is an access/refresh token pair issued for a session.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RefreshToken is a persisted refresh token ledger row.
type RefreshToken struct {
	UserID    int64
	Token     string
	ExpiresAt time.Time
}

// NewUser carries the validated fields for local registration.
type NewUser struct {
	FirstName    string
	LastName     string
	Email        string
	Mobile       *string
	PasswordHash string
	ProfileImage *string
	Role         Role
}

// FederatedUser carries the identity asserted by an external provider.
type FederatedUser struct {
	FirstName      string
	LastName       string
	Email          string
	ProfileImage   *string
	Role           Role
	AuthProvider   string
	ProviderUserID string
}

// ProfileUpdate carries the mutable profile fields.
type ProfileUpdate struct {
	FirstName    *string
	LastName     *string
	Mobile       *string
	ProfileImage *string
}
