package domain

// Session holds the credentials and identity of the signed-in user.
// The zero value is the logged-out state.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
}

// Authenticated reports whether an access token is held.
func (s *Session) Authenticated() bool {
	return s != nil && s.AccessToken != ""
}
