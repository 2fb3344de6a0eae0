package user

import "time"

// User represents an identity record. Authentication lives upstream; this
// service only needs stable IDs and display names.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
