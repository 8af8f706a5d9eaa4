package models

// User is the authenticated account profile.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
}

// DisplayName prefers the full name, then the username, then the email.
func (u User) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}

// TokenPair is the response of the token endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LegacyLogin is the response of the session-style /auth/login/ endpoint.
type LegacyLogin struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
