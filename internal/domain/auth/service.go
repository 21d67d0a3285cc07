// Package auth orchestrates onboarding and authentication across the
// identity store, the payments processor and the user directory.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"horizon/internal/domain/identity"
	"horizon/internal/domain/user"
	"horizon/internal/infrastructure/payments"
)

// ErrPaymentsCustomer is returned when the payments processor rejects the
// customer creation step of sign-up. The identity record created before it is
// left in place and swept later by the reconciler.
var ErrPaymentsCustomer = errors.New("payments customer creation failed")

// IdentityStore is the narrow session-store surface the orchestrator needs.
// Implemented by identity.Service.
type IdentityStore interface {
	CreateIdentity(ctx context.Context, email, password, name string) (*identity.Identity, error)
	CreateSession(ctx context.Context, email, password string) (*identity.Session, string, error)
	Verify(ctx context.Context, secret string) (*identity.Session, error)
	Destroy(ctx context.Context, secret string) error
}

// Service sequences account creation, payments-customer creation and session
// issuance as one logical unit.
type Service struct {
	identities IdentityStore
	payments   payments.ClientInterface
	users      user.Repository
}

// NewService creates an auth orchestrator.
func NewService(identities IdentityStore, paymentsClient payments.ClientInterface, users user.Repository) *Service {
	return &Service{
		identities: identities,
		payments:   paymentsClient,
		users:      users,
	}
}

// SignUpParams carries the profile fields collected at registration.
type SignUpParams struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`
}

// SignUp onboards a new user: identity record, payments customer, user
// document, session. Returns the persisted user and the session secret for
// the cookie. A duplicate email fails with identity.ErrEmailTaken before
// anything else is created.
func (s *Service) SignUp(ctx context.Context, params SignUpParams) (*user.User, string, error) {
	fullName := params.FirstName + " " + params.LastName

	ident, err := s.identities.CreateIdentity(ctx, params.Email, params.Password, fullName)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return nil, "", identity.ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create identity: %w", err)
	}

	customerURL, err := s.payments.CreateCustomer(ctx, payments.CustomerParams{
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		Email:       params.Email,
		Address1:    params.Address,
		City:        params.City,
		State:       params.State,
		PostalCode:  params.PostalCode,
		DateOfBirth: params.DateOfBirth,
		SSN:         params.SSN,
	})
	if err != nil {
		// Identity ident.ID is now orphaned; the reconciliation sweep
		// removes it after the grace period.
		log.Printf("Sign-up for %s: payments customer creation failed, identity %s orphaned: %v", params.Email, ident.ID, err)
		return nil, "", fmt.Errorf("%w: %v", ErrPaymentsCustomer, err)
	}

	customerID := payments.IDFromResourceURL(customerURL)
	if customerID == "" {
		log.Printf("Sign-up for %s: payments returned unusable customer URL %q, identity %s orphaned", params.Email, customerURL, ident.ID)
		return nil, "", fmt.Errorf("%w: empty customer id", ErrPaymentsCustomer)
	}

	newUser, err := s.users.Create(ctx, user.CreateUserParams{
		ID:                  uuid.NewString(),
		IdentityID:          ident.ID,
		Email:               params.Email,
		FirstName:           params.FirstName,
		LastName:            params.LastName,
		Address:             params.Address,
		City:                params.City,
		State:               params.State,
		PostalCode:          params.PostalCode,
		DateOfBirth:         params.DateOfBirth,
		SSN:                 params.SSN,
		PaymentsCustomerID:  customerID,
		PaymentsCustomerURL: customerURL,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to persist user document: %w", err)
	}

	_, secret, err := s.identities.CreateSession(ctx, params.Email, params.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	return newUser, secret, nil
}

// SignIn authenticates an existing user and returns the matching user
// document plus a fresh session secret.
func (s *Service) SignIn(ctx context.Context, email, password string) (*user.User, string, error) {
	session, secret, err := s.identities.CreateSession(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return nil, "", identity.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	u, err := s.users.GetByIdentityID(ctx, session.IdentityID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user for session: %w", err)
	}

	return u, secret, nil
}

// CurrentUser resolves a session secret to its user document. A missing,
// expired or invalid session is the ordinary "not logged in" state and
// returns (nil, nil), never an error.
func (s *Service) CurrentUser(ctx context.Context, secret string) (*user.User, error) {
	if secret == "" {
		return nil, nil
	}

	session, err := s.identities.Verify(ctx, secret)
	if err != nil {
		return nil, nil
	}

	u, err := s.users.GetByIdentityID(ctx, session.IdentityID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil
		}
		log.Printf("Failed to load user for valid session: %v", err)
		return nil, nil
	}

	return u, nil
}

// Logout invalidates the session. Failures are swallowed so a client is
// never stuck unable to log out.
func (s *Service) Logout(ctx context.Context, secret string) {
	if secret == "" {
		return
	}
	if err := s.identities.Destroy(ctx, secret); err != nil {
		log.Printf("Failed to destroy session on logout: %v", err)
	}
}
