package dto

// ── user module ──

// UserRecord is the admin-facing roster row.
type UserRecord struct {
	ID        string  `json:"id"`
	LastName  string  `json:"last_name"`
	FirstName string  `json:"first_name"`
	Nickname  *string `json:"nickname,omitempty"`
	Grade     int     `json:"grade"`
	Period    int     `json:"period"`
	Class     *string `json:"class,omitempty"`
}

// ImportSkip explains one rejected import row.
type ImportSkip struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportReport summarizes a bulk user import.
type ImportReport struct {
	Created int          `json:"created"`
	Skipped []ImportSkip `json:"skipped,omitempty"`
}
