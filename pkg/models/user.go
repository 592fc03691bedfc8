package models

// User represents a registered account. Registrants log in to edit their
// assignments and view their payments.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's email address (unique). Used for login.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"created_at"`
}

// NewUser creates a user with the given email, display name and password
// hash. The ID is assigned by the store.
func NewUser(email, name, passwordHash string) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}
}
