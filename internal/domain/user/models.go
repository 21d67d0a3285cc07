package user

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrUserNotFound = errors.New("user not found")
)

// User is the directory document holding profile data. The credential lives
// in the identity store; IdentityID ties the two together. Created once at
// sign-up and immutable afterwards.
type User struct {
	ID                  string    `json:"id"`
	IdentityID          string    `json:"userId"`
	Email               string    `json:"email"`
	FirstName           string    `json:"firstName"`
	LastName            string    `json:"lastName"`
	Address             string    `json:"address"`
	City                string    `json:"city"`
	State               string    `json:"state"`
	PostalCode          string    `json:"postalCode"`
	DateOfBirth         string    `json:"dateOfBirth"`
	SSN                 string    `json:"-"`
	PaymentsCustomerID  string    `json:"dwollaCustomerId"`
	PaymentsCustomerURL string    `json:"dwollaCustomerUrl"`
	CreatedAt           time.Time `json:"createdAt"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// CreateUserParams contains parameters for persisting a user document.
type CreateUserParams struct {
	ID                  string
	IdentityID          string
	Email               string
	FirstName           string
	LastName            string
	Address             string
	City                string
	State               string
	PostalCode          string
	DateOfBirth         string
	SSN                 string
	PaymentsCustomerID  string
	PaymentsCustomerURL string
}

// FullName returns the display name used for the identity record and the
// aggregator link flow.
func (p CreateUserParams) FullName() string {
	return p.FirstName + " " + p.LastName
}
