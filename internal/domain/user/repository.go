// Package user defines the user entity and the interface for accessing it.
// The repository abstracts the data persistence details, ensuring the core
// application is clean and decoupled from the database.
package user

import "time"

// User represents a registered account in the system.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone,omitempty"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	PasswordHash   string    `json:"-"` // Never serialize password hash
	IsVerified     bool      `json:"isVerified"`
	IsStaff        bool      `json:"isStaff"`
	IsSuperuser    bool      `json:"isSuperuser"`
	OTP            string    `json:"-"` // Pending email verification code
	OTPExpiry      time.Time `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	Changed        time.Time `json:"changed"`
}

// PublicView is the shape of user data exposed on the validate endpoint.
// This is a derived entity, not persisted directly.
type PublicView struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	IsVerified  bool   `json:"isVerified"`
	IsSuperuser bool   `json:"isSuperuser"`
	IsStaff     bool   `json:"isStaff"`
}

// Public returns the externally visible view of the user.
func (u *User) Public() *PublicView {
	return &PublicView{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		IsVerified:  u.IsVerified,
		IsSuperuser: u.IsSuperuser,
		IsStaff:     u.IsStaff,
	}
}

// Repository defines the operations for persisting User entities.
type Repository interface {
	FindByID(id int64) (*User, error)
	FindByEmail(email string) (*User, error)
	Store(u *User) (int64, error)
	Update(u *User) error
}
