package dto

import "time"

type UpdateSettingsRequest struct {
	ForumStartDate     time.Time `json:"forum_start_date"`
	ForumEndDate       time.Time `json:"forum_end_date"`
	IsRegistrationOpen bool      `json:"is_registration_open"`
	WelcomeMessage     string    `json:"welcome_message"`
}
