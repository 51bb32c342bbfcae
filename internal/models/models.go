package models

import "time"

// UnsafeAccount is a demo credential stored in plain text on purpose.
type UnsafeAccount struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SafeAccount is a demo credential stored as a bcrypt hash.
type SafeAccount struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginAttempt is one entry of the safe demo's attempt journal.
type LoginAttempt struct {
	ID          int64     `json:"id"`
	ViewID      string    `json:"view_id"`
	Username    string    `json:"username"`
	Success     bool      `json:"success"`
	Simulated   bool      `json:"simulated"`
	AttemptedAt time.Time `json:"attempted_at"`
}
