package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"horizon/internal/shared/auth"
)

// MockRepo implements Repository
type MockRepo struct {
	CreateFunc             func(ctx context.Context, params CreateIdentityParams) (*Identity, error)
	GetByIDFunc            func(ctx context.Context, id string) (*Identity, error)
	GetByEmailFunc         func(ctx context.Context, email string) (*Identity, error)
	DeleteFunc             func(ctx context.Context, id string) error
	ListOrphanedBeforeFunc func(ctx context.Context, cutoff time.Time) ([]*Identity, error)
}

func (m *MockRepo) Create(ctx context.Context, params CreateIdentityParams) (*Identity, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &Identity{ID: params.ID, Email: params.Email, PasswordHash: params.PasswordHash, Name: params.Name}, nil
}

func (m *MockRepo) GetByID(ctx context.Context, id string) (*Identity, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrIdentityNotFound
}

func (m *MockRepo) GetByEmail(ctx context.Context, email string) (*Identity, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, ErrIdentityNotFound
}

func (m *MockRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockRepo) ListOrphanedBefore(ctx context.Context, cutoff time.Time) ([]*Identity, error) {
	if m.ListOrphanedBeforeFunc != nil {
		return m.ListOrphanedBeforeFunc(ctx, cutoff)
	}
	return nil, nil
}

// MockSessionRepo implements SessionRepository
type MockSessionRepo struct {
	sessions map[string]*Session
}

func NewMockSessionRepo() *MockSessionRepo {
	return &MockSessionRepo{sessions: make(map[string]*Session)}
}

func (m *MockSessionRepo) Create(ctx context.Context, session *Session) error {
	m.sessions[session.TokenHash] = session
	return nil
}

func (m *MockSessionRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error) {
	s, ok := m.sessions[tokenHash]
	if !ok {
		return nil, ErrSessionInvalid
	}
	return s, nil
}

func (m *MockSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	delete(m.sessions, tokenHash)
	return nil
}

func (m *MockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	for hash, s := range m.sessions {
		if s.ID == id {
			delete(m.sessions, hash)
		}
	}
	return nil
}

func registeredIdentity(t *testing.T, email, password string) *Identity {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}
	return &Identity{
		ID:           "ident-1",
		Email:        email,
		PasswordHash: hash,
		Name:         "Ana Lee",
		CreatedAt:    time.Now(),
	}
}

func TestCreateIdentity_GeneratesIDAndHash(t *testing.T) {
	var created CreateIdentityParams
	repo := &MockRepo{
		CreateFunc: func(ctx context.Context, params CreateIdentityParams) (*Identity, error) {
			created = params
			return &Identity{ID: params.ID, Email: params.Email, PasswordHash: params.PasswordHash}, nil
		},
	}
	svc := NewService(repo, NewMockSessionRepo(), time.Hour)

	ident, err := svc.CreateIdentity(context.Background(), "a@x.com", "Secret123!", "Ana Lee")
	if err != nil {
		t.Fatalf("CreateIdentity() failed: %v", err)
	}

	if ident.ID == "" || created.ID == "" {
		t.Error("CreateIdentity() did not generate an id")
	}
	if created.PasswordHash == "Secret123!" {
		t.Error("CreateIdentity() stored the plaintext password")
	}
	if err := auth.VerifyPassword(created.PasswordHash, "Secret123!"); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestCreateIdentity_EmailTaken(t *testing.T) {
	repo := &MockRepo{
		CreateFunc: func(ctx context.Context, params CreateIdentityParams) (*Identity, error) {
			return nil, ErrEmailTaken
		},
	}
	svc := NewService(repo, NewMockSessionRepo(), time.Hour)

	_, err := svc.CreateIdentity(context.Background(), "a@x.com", "Secret123!", "Ana Lee")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("CreateIdentity() error = %v, want ErrEmailTaken", err)
	}
}

func TestCreateSession_Success(t *testing.T) {
	ident := registeredIdentity(t, "a@x.com", "Secret123!")
	repo := &MockRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*Identity, error) {
			if email == ident.Email {
				return ident, nil
			}
			return nil, ErrIdentityNotFound
		},
	}
	sessions := NewMockSessionRepo()
	svc := NewService(repo, sessions, time.Hour)

	session, secret, err := svc.CreateSession(context.Background(), "a@x.com", "Secret123!")
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	if secret == "" {
		t.Fatal("CreateSession() returned empty secret")
	}
	if session.IdentityID != ident.ID {
		t.Errorf("session.IdentityID = %q, want %q", session.IdentityID, ident.ID)
	}
	if session.TokenHash == secret {
		t.Error("CreateSession() stored the raw secret instead of its hash")
	}
	if session.TokenHash != HashSecret(secret) {
		t.Error("stored token hash does not match HashSecret(secret)")
	}
}

func TestCreateSession_WrongPassword(t *testing.T) {
	ident := registeredIdentity(t, "a@x.com", "Secret123!")
	repo := &MockRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*Identity, error) {
			return ident, nil
		},
	}
	svc := NewService(repo, NewMockSessionRepo(), time.Hour)

	_, _, err := svc.CreateSession(context.Background(), "a@x.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CreateSession() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestCreateSession_UnknownEmail(t *testing.T) {
	svc := NewService(&MockRepo{}, NewMockSessionRepo(), time.Hour)

	_, _, err := svc.CreateSession(context.Background(), "nobody@x.com", "Secret123!")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CreateSession() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	ident := registeredIdentity(t, "a@x.com", "Secret123!")
	repo := &MockRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*Identity, error) {
			return ident, nil
		},
	}
	sessions := NewMockSessionRepo()
	svc := NewService(repo, sessions, time.Hour)

	_, secret, err := svc.CreateSession(context.Background(), "a@x.com", "Secret123!")
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}

	session, err := svc.Verify(context.Background(), secret)
	if err != nil {
		t.Fatalf("Verify() failed: %v", err)
	}
	if session.IdentityID != ident.ID {
		t.Errorf("Verify() IdentityID = %q, want %q", session.IdentityID, ident.ID)
	}
}

func TestVerify_Expired(t *testing.T) {
	sessions := NewMockSessionRepo()
	expired := &Session{
		ID:         "sess-1",
		IdentityID: "ident-1",
		TokenHash:  HashSecret("old-secret"),
		ExpiresAt:  time.Now().Add(-time.Minute),
	}
	sessions.sessions[expired.TokenHash] = expired
	svc := NewService(&MockRepo{}, sessions, time.Hour)

	_, err := svc.Verify(context.Background(), "old-secret")
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Verify() error = %v, want ErrSessionExpired", err)
	}
	if len(sessions.sessions) != 0 {
		t.Error("Verify() left the expired session in storage")
	}
}

func TestVerify_EmptySecret(t *testing.T) {
	svc := NewService(&MockRepo{}, NewMockSessionRepo(), time.Hour)

	_, err := svc.Verify(context.Background(), "")
	if !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("Verify() error = %v, want ErrSessionInvalid", err)
	}
}

func TestDestroy_RemovesSession(t *testing.T) {
	ident := registeredIdentity(t, "a@x.com", "Secret123!")
	repo := &MockRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*Identity, error) {
			return ident, nil
		},
	}
	sessions := NewMockSessionRepo()
	svc := NewService(repo, sessions, time.Hour)

	_, secret, _ := svc.CreateSession(context.Background(), "a@x.com", "Secret123!")

	if err := svc.Destroy(context.Background(), secret); err != nil {
		t.Fatalf("Destroy() failed: %v", err)
	}

	if _, err := svc.Verify(context.Background(), secret); err == nil {
		t.Error("Verify() succeeded after Destroy()")
	}
}
