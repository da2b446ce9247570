package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/opencourse/lms-backend/internal/config"
	"github.com/opencourse/lms-backend/internal/model"
	"github.com/opencourse/lms-backend/internal/remoteauth"
	"github.com/opencourse/lms-backend/internal/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ─── Fakes ─────────────────────────────────────────────────────────────

type fakeUserStore struct {
	byEmail   map[string]*model.User
	createErr error
	created   []*model.User
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, u)
	return nil
}

type remoteCall struct {
	email    string
	password string
	role     model.Role
}

type fakeRemote struct {
	signInToken string
	signInErr   error
	signUpToken string
	signUpErr   error
	signIns     []remoteCall
	signUps     []remoteCall
}

func (f *fakeRemote) SignIn(_ context.Context, email, password string) (string, error) {
	f.signIns = append(f.signIns, remoteCall{email: email, password: password})
	return f.signInToken, f.signInErr
}

func (f *fakeRemote) SignUp(_ context.Context, email, password string, role model.Role) (string, error) {
	f.signUps = append(f.signUps, remoteCall{email: email, password: password, role: role})
	return f.signUpToken, f.signUpErr
}

// ─── Helpers ───────────────────────────────────────────────────────────

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:              "test-secret",
		JWTExpiry:              time.Hour,
		BcryptCost:             bcrypt.MinCost,
		RemoteFallbackPassword: "default_password123",
	}
}

func storeWithUser(t *testing.T, email, password string, role model.Role) (*fakeUserStore, *model.User) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		ID:           "user-1",
		Email:        email,
		FullName:     "Test User",
		Role:         role,
		PasswordHash: string(hash),
	}
	return &fakeUserStore{byEmail: map[string]*model.User{email: user}}, user
}

func newTestAuthService(cfg *config.Config, users UserStore, remote RemoteAuthenticator) *AuthService {
	return NewAuthService(cfg, users, remote, zerolog.Nop())
}

// ─── Authenticate ──────────────────────────────────────────────────────

func TestAuthenticate_MissingCredentials(t *testing.T) {
	svc := newTestAuthService(testConfig(), &fakeUserStore{}, nil)

	_, err := svc.Authenticate(context.Background(), "", "pw")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = svc.Authenticate(context.Background(), "a@b.com", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	svc := newTestAuthService(testConfig(), &fakeUserStore{byEmail: map[string]*model.User{}}, nil)

	_, err := svc.Authenticate(context.Background(), "nobody@example.com", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	users, _ := storeWithUser(t, "alice@example.com", "correct-horse", model.RoleStudent)
	svc := newTestAuthService(testConfig(), users, nil)

	_, err := svc.Authenticate(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_EmailIsCaseSensitive(t *testing.T) {
	users, _ := storeWithUser(t, "alice@example.com", "correct-horse", model.RoleStudent)
	svc := newTestAuthService(testConfig(), users, nil)

	_, err := svc.Authenticate(context.Background(), "Alice@Example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_LocalOnlySuccess(t *testing.T) {
	users, user := storeWithUser(t, "alice@example.com", "correct-horse", model.RoleStudent)
	svc := newTestAuthService(testConfig(), users, nil)

	identity, err := svc.Authenticate(context.Background(), "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)
	assert.Equal(t, model.RoleStudent, identity.Role)
	assert.Empty(t, identity.RemoteAccessToken)
}

func TestAuthenticate_RemoteTokenCaptured(t *testing.T) {
	users, _ := storeWithUser(t, "alice@example.com", "correct-horse", model.RoleStudent)
	remote := &fakeRemote{signInToken: "remote-tok"}
	svc := newTestAuthService(testConfig(), users, remote)

	identity, err := svc.Authenticate(context.Background(), "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "remote-tok", identity.RemoteAccessToken)
	require.Len(t, remote.signIns, 1)
	assert.Equal(t, "correct-horse", remote.signIns[0].password)
}

func TestAuthenticate_RemoteDownStillSucceeds(t *testing.T) {
	users, _ := storeWithUser(t, "alice@example.com", "correct-horse", model.RoleStudent)
	remote := &fakeRemote{signInErr: remoteauth.ErrUnavailable}
	svc := newTestAuthService(testConfig(), users, remote)

	identity, err := svc.Authenticate(context.Background(), "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Empty(t, identity.RemoteAccessToken)
	// No sign-up attempt on unavailability, only on account-not-found.
	assert.Empty(t, remote.signUps)
}

func TestAuthenticate_LazySignUpOnMissingRemoteIdentity(t *testing.T) {
	users, _ := storeWithUser(t, "teach@example.com", "correct-horse", model.RoleTeacher)
	remote := &fakeRemote{signInErr: remoteauth.ErrAccountNotFound, signUpToken: "fresh-tok"}
	svc := newTestAuthService(testConfig(), users, remote)

	identity, err := svc.Authenticate(context.Background(), "teach@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "fresh-tok", identity.RemoteAccessToken)
	require.Len(t, remote.signUps, 1)
	// Role is mirrored verbatim into the remote identity metadata.
	assert.Equal(t, model.RoleTeacher, remote.signUps[0].role)
}

func TestAuthenticate_SignUpFailureStillSucceeds(t *testing.T) {
	users, _ := storeWithUser(t, "alice@example.com", "correct-horse", model.RoleStudent)
	remote := &fakeRemote{signInErr: remoteauth.ErrAccountNotFound, signUpErr: remoteauth.ErrSchemaMismatch}
	svc := newTestAuthService(testConfig(), users, remote)

	identity, err := svc.Authenticate(context.Background(), "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Empty(t, identity.RemoteAccessToken)
}

// ─── Register ──────────────────────────────────────────────────────────

func TestRegister_ForcesStudentRole(t *testing.T) {
	users := &fakeUserStore{byEmail: map[string]*model.User{}}
	svc := newTestAuthService(testConfig(), users, nil)

	user, err := svc.Register(context.Background(), &model.SignupRequest{
		Email:    "new@example.com",
		Password: "long-enough-pw",
		FullName: "New Student",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, user.Role)
	require.Len(t, users.created, 1)

	// Hash must verify against the original password and never equal it.
	assert.NotEqual(t, "long-enough-pw", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("long-enough-pw")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := &fakeUserStore{createErr: repository.ErrDuplicateEmail}
	svc := newTestAuthService(testConfig(), users, nil)

	_, err := svc.Register(context.Background(), &model.SignupRequest{
		Email:    "dup@example.com",
		Password: "long-enough-pw",
		FullName: "Dup",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

// ─── RemoteSession ─────────────────────────────────────────────────────

func TestRemoteSession_UsesFallbackPassword(t *testing.T) {
	remote := &fakeRemote{signInToken: "session-tok"}
	svc := newTestAuthService(testConfig(), &fakeUserStore{}, remote)

	token, err := svc.RemoteSession(context.Background(), &model.User{
		Email: "alice@example.com", Role: model.RoleStudent,
	})
	require.NoError(t, err)
	assert.Equal(t, "session-tok", token)
	require.Len(t, remote.signIns, 1)
	assert.Equal(t, "default_password123", remote.signIns[0].password)
}

func TestRemoteSession_SignsUpMissingIdentity(t *testing.T) {
	remote := &fakeRemote{signInErr: remoteauth.ErrAccountNotFound, signUpToken: "fresh-tok"}
	svc := newTestAuthService(testConfig(), &fakeUserStore{}, remote)

	token, err := svc.RemoteSession(context.Background(), &model.User{
		Email: "alice@example.com", Role: model.RoleStudent,
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh-tok", token)
}

func TestRemoteSession_SurfacesFailure(t *testing.T) {
	remote := &fakeRemote{signInErr: remoteauth.ErrUnavailable}
	svc := newTestAuthService(testConfig(), &fakeUserStore{}, remote)

	_, err := svc.RemoteSession(context.Background(), &model.User{Email: "alice@example.com"})
	assert.ErrorIs(t, err, remoteauth.ErrUnavailable)
}

func TestRemoteSession_NotConfigured(t *testing.T) {
	svc := newTestAuthService(testConfig(), &fakeUserStore{}, nil)

	_, err := svc.RemoteSession(context.Background(), &model.User{Email: "alice@example.com"})
	assert.ErrorIs(t, err, remoteauth.ErrUnavailable)
}

// ─── Tokens ────────────────────────────────────────────────────────────

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestAuthService(testConfig(), &fakeUserStore{}, nil)

	token, err := svc.GenerateToken(&model.Identity{
		ID:                "user-42",
		Role:              model.RoleTeacher,
		RemoteAccessToken: "remote-tok",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, model.RoleTeacher, claims.Role)
	assert.Equal(t, "remote-tok", claims.RemoteAccessToken)
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := testConfig()
	cfg.JWTExpiry = -time.Hour
	svc := newTestAuthService(cfg, &fakeUserStore{}, nil)

	token, err := svc.GenerateToken(&model.Identity{ID: "user-42", Role: model.RoleStudent})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newTestAuthService(testConfig(), &fakeUserStore{}, nil)
	token, err := svc.GenerateToken(&model.Identity{ID: "user-42", Role: model.RoleStudent})
	require.NoError(t, err)

	other := testConfig()
	other.JWTSecret = "different-secret"
	otherSvc := newTestAuthService(other, &fakeUserStore{}, nil)

	_, err = otherSvc.ValidateToken(token)
	assert.Error(t, err)
}
