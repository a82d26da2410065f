package dto

// ── auth module ──

// GoogleLoginRequest carries the Google ID token from the sign-in widget.
type GoogleLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// SessionResponse is the issued session token plus the signed-in user.
type SessionResponse struct {
	Token string      `json:"token"`
	User  UserPayload `json:"user"`
}

// UserPayload is the client-facing view of a user.
type UserPayload struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Nickname    *string `json:"nickname,omitempty"`
	Grade       int     `json:"grade"`
	Period      int     `json:"period"`
	Admin       bool    `json:"admin"`
}
