package model

import "time"

// Entry links one user to one event. The composite key enforces at most one
// enrollment per (event, user) pair.
type Entry struct {
	EventID     string     `gorm:"type:varchar(16);primaryKey" json:"event_id"`
	UserID      string     `gorm:"type:varchar(64);primaryKey" json:"user_id"`
	CheckIn     *time.Time `gorm:"column:check_in"             json:"check_in,omitempty"`
	CheckOut    *time.Time `gorm:"column:check_out"            json:"check_out,omitempty"`
	Position    *string    `gorm:"type:varchar(100)"           json:"position,omitempty"`
	PrivateNote *string    `gorm:"type:text"                   json:"private_note,omitempty"`

	User  *User  `gorm:"foreignKey:UserID;references:ID"  json:"user,omitempty"`
	Event *Event `gorm:"foreignKey:EventID;references:ID" json:"event,omitempty"`
}

// TableName sets the table name.
func (Entry) TableName() string { return "entries" }

// Complete reports whether the member has been both checked in and out, at
// which point a check in/out code serves no purpose.
func (e *Entry) Complete() bool {
	return e.CheckIn != nil && e.CheckOut != nil
}
