package dto

// ── event module ──

// CreateEventRequest creates an event. Date and times are local wall-clock
// values in the configured display timezone; limit and reserved are the raw
// form strings, where empty or zero means unset.
type CreateEventRequest struct {
	EventTitle string `json:"eventTitle" binding:"required"`
	Date       string `json:"date"       binding:"required"` // 2006-01-02
	StartTime  string `json:"startTime"  binding:"required"` // 15:04
	EndTime    string `json:"endTime"    binding:"required"` // 15:04
	Limit      string `json:"limit"`
	Reserved   string `json:"reserved"`
}

// UpdateEventRequest edits an event; same field semantics as create.
type UpdateEventRequest struct {
	EventTitle string `json:"eventTitle" binding:"required"`
	Date       string `json:"date"       binding:"required"`
	StartTime  string `json:"startTime"  binding:"required"`
	EndTime    string `json:"endTime"    binding:"required"`
	Limit      string `json:"limit"`
	Reserved   string `json:"reserved"`
}

// CreateEventResponse returns the generated event identifier.
type CreateEventResponse struct {
	ID string `json:"id"`
}

// EventData is the display form of an event: ISO instants for machines plus
// localized date/time strings for rendering.
type EventData struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartISO  string `json:"start_iso"`
	EndISO    string `json:"end_iso"`
	Date      string `json:"date"`       // localized, 2006-01-02
	StartTime string `json:"start_time"` // localized, 15:04
	EndTime   string `json:"end_time"`   // localized, 15:04
}

// EventLimits is the aggregate availability of an event. Max and Available
// are null for unlimited events; Available may be negative when an admin has
// overfilled a capped event.
type EventLimits struct {
	Max               *int `json:"max"`
	Reserved          int  `json:"reserved"`
	Filled            int  `json:"filled"`
	Available         *int `json:"available"`
	ReservedAvailable int  `json:"reserved_available"`
}

// UserEventLimits is the per-viewer join decision.
type UserEventLimits struct {
	UserAvailable     bool   `json:"user_available"`
	UserJustification string `json:"user_justification"`
}

// EventDetailResponse is the public event page payload.
type EventDetailResponse struct {
	EventData       EventData       `json:"eventData"`
	EventLimits     EventLimits     `json:"eventLimits"`
	UserEventLimits UserEventLimits `json:"userEventLimits"`
}

// DashboardEntry is one roster row on the admin dashboard.
type DashboardEntry struct {
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Grade       int     `json:"grade"`
	Period      int     `json:"period"`
	CheckIn     *string `json:"check_in"`  // localized, 15:04
	CheckOut    *string `json:"check_out"` // localized, 15:04
	Position    *string `json:"position"`
	PrivateNote *string `json:"private_note"`
}

// DashboardResponse is the admin dashboard payload.
type DashboardResponse struct {
	EventData EventData        `json:"eventData"`
	Entries   []DashboardEntry `json:"entries"`
}
