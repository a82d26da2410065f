package dto

// ── enrollment module ──

// JoinRequest enrolls the authenticated user in an event.
type JoinRequest struct {
	EventID string `json:"eventId" binding:"required"`
}

// EditEntryRequest overwrites an entry from the admin dashboard. Check-in and
// check-out are local wall-clock times (15:04) anchored to the event's own
// date; empty strings clear the stamps. Position and private note are
// overwritten as given.
type EditEntryRequest struct {
	CheckIn     string `json:"checkIn"`
	CheckOut    string `json:"checkOut"`
	Position    string `json:"position"`
	PrivateNote string `json:"privateNote"`
}

// EntryStatus is the member-facing slice of an entry.
type EntryStatus struct {
	CheckIn  *string `json:"check_in"`  // localized, 15:04
	CheckOut *string `json:"check_out"` // localized, 15:04
	Position *string `json:"position"`
}

// UserEventResponse pairs an event with the user's own entry state.
type UserEventResponse struct {
	EventData EventData   `json:"eventData"`
	Entry     EntryStatus `json:"entry"`
}
