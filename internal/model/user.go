package model

// User is an imported roster member. IDs are the local part of the
// institutional email address; grade 0 marks an administrator account.
type User struct {
	ID        string  `gorm:"type:varchar(64);primaryKey"    json:"id"`
	LastName  string  `gorm:"type:varchar(100);not null"     json:"last_name"`
	FirstName string  `gorm:"type:varchar(100);not null"     json:"first_name"`
	Nickname  *string `gorm:"type:varchar(100)"              json:"nickname,omitempty"`
	Grade     int     `gorm:"type:smallint;not null"         json:"grade"`
	Period    int     `gorm:"type:smallint;not null"         json:"period"`
	Class     *string `gorm:"type:varchar(50)"               json:"class,omitempty"`
}

// TableName sets the table name.
func (User) TableName() string { return "users" }

// Admin reports whether the user is an administrator.
func (u *User) Admin() bool { return u.Grade == 0 }

// DisplayName prefers the nickname when one is on file.
func (u *User) DisplayName() string {
	if u.Nickname != nil && *u.Nickname != "" {
		return *u.Nickname + " " + u.LastName
	}
	return u.FirstName + " " + u.LastName
}
