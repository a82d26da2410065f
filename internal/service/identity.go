package service

// Identity is the authenticated caller as established by the session
// middleware. It carries everything the services need so they never re-read
// the users table for the caller.
type Identity struct {
	ID          string
	DisplayName string
	Period      int
	Grade       int
	Admin       bool
}

// Email derives the institutional address used for calendar attendee sync.
// Empty when no mail domain is configured; callers skip attendee sync then.
func (i Identity) Email(domain string) string {
	if domain == "" {
		return ""
	}
	return i.ID + "@" + domain
}
