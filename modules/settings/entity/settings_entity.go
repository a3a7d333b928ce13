package entity

import "time"

// ForumSettings is a single-row table holding the event window. Registration
// is only open between the dates and while IsRegistrationOpen is set.
type ForumSettings struct {
	ID                 int       `db:"id" json:"-"`
	ForumStartDate     time.Time `db:"forum_start_date" json:"forum_start_date"`
	ForumEndDate       time.Time `db:"forum_end_date" json:"forum_end_date"`
	IsRegistrationOpen bool      `db:"is_registration_open" json:"is_registration_open"`
	WelcomeMessage     string    `db:"welcome_message" json:"welcome_message"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}
