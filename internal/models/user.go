package models

// User is a registered identity. Usernames are trimmed, case-sensitive and
// unique; a user is created once and never updated or deleted.
type User struct {
	Username string `json:"username"`
}
