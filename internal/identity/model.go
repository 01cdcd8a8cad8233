package identity

import "time"

// User represents a registered account holder. The user's id doubles as the
// account id in the account store.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Credentials is the sign-up / sign-in request structure.
type Credentials struct {
	Name     string
	Email    string
	Password string
}
