package model

import "time"

// Event is a joinable event. Timestamps are stored in UTC and localized for
// display only. Limit and Reserved are nil when unset: a nil Limit means
// unlimited capacity, a nil Reserved means no seats held back.
type Event struct {
	ID       string    `gorm:"type:varchar(16);primaryKey" json:"id"`
	Title    string    `gorm:"type:varchar(200);not null"  json:"title"`
	Start    time.Time `gorm:"column:start;not null"       json:"start"`
	End      time.Time `gorm:"column:end;not null"         json:"end"`
	Limit    *int      `gorm:"column:limit"                json:"limit,omitempty"`
	Reserved *int      `gorm:"column:reserved"             json:"reserved,omitempty"`

	Entries []Entry `gorm:"foreignKey:EventID;references:ID" json:"entries,omitempty"`
}

// TableName sets the table name.
func (Event) TableName() string { return "events" }
