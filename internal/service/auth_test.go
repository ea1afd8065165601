package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fayaebeb/mirai-app-sub001/internal/model"
	"github.com/fayaebeb/mirai-app-sub001/internal/repository"
)

type fakeUserRepo struct {
	users map[string]*model.User // key: ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (f *fakeUserRepo) Create(user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) ByID(id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) ByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) Update(user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Delete(id string) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeTokenRepo struct {
	tokens map[string]*model.Token // key: token string
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*model.Token{}}
}

func (f *fakeTokenRepo) Create(token *model.Token) error {
	cp := *token
	f.tokens[token.Token] = &cp
	return nil
}

func (f *fakeTokenRepo) ConsumeToken(token string) (*model.Token, error) {
	t, ok := f.tokens[token]
	if !ok || t.UsedAt != nil || t.ExpiresAt.Before(time.Now()) {
		return nil, repository.ErrTokenNotFound
	}
	now := time.Now()
	t.UsedAt = &now
	cp := *t
	return &cp, nil
}

func (f *fakeTokenRepo) DeleteByUserAndType(userID, tokenType string) error {
	for k, t := range f.tokens {
		if t.UserID == userID && t.Type == tokenType {
			delete(f.tokens, k)
		}
	}
	return nil
}

func newAuthFixture() (*AuthService, *fakeUserRepo, *fakeTokenRepo) {
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo()
	email := NewEmailService("", "test@example.com", "http://localhost:8090", "Mirai", true)
	svc := NewAuthService(
		users,
		tokens,
		email,
		"test-secret",
		false,
		24*time.Hour,
		24*time.Hour,
		time.Hour,
	)
	return svc, users, tokens
}

const testPassword = "a-long-enough-secret"

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthFixture()

	user, err := svc.Register("aki@example.com", "Aki", testPassword)
	require.NoError(t, err)
	assert.Equal(t, "aki@example.com", user.Email)
	assert.NotEqual(t, testPassword, user.PasswordHash)

	got, err := svc.Login("Aki@Example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register("aki@example.com", "Aki", testPassword)
	require.NoError(t, err)

	_, err = svc.Register("aki@example.com", "Other", testPassword)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestRegisterValidatesInput(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register("not-an-email", "Aki", testPassword)
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register("aki@example.com", "Aki", "short")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register("aki@example.com", "Aki", testPassword)
	require.NoError(t, err)

	_, err = svc.Login("aki@example.com", "wrong-password-here")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyEmailConsumesToken(t *testing.T) {
	svc, _, tokens := newAuthFixture()

	user, err := svc.Register("aki@example.com", "Aki", testPassword)
	require.NoError(t, err)

	// Registration issued exactly one verification token.
	require.Len(t, tokens.tokens, 1)
	var raw string
	for k := range tokens.tokens {
		raw = k
	}

	verified, err := svc.VerifyEmail(raw)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
	assert.NotNil(t, verified.EmailVerifiedAt)

	// Tokens are single use.
	_, err = svc.VerifyEmail(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetPasswordFlow(t *testing.T) {
	svc, _, tokens := newAuthFixture()

	user, err := svc.Register("aki@example.com", "Aki", testPassword)
	require.NoError(t, err)
	tokens.tokens = map[string]*model.Token{} // drop the verification token

	require.NoError(t, svc.ForgotPassword("aki@example.com"))
	require.Len(t, tokens.tokens, 1)
	var raw string
	for k := range tokens.tokens {
		raw = k
	}

	const newPassword = "an-even-longer-secret"
	require.NoError(t, svc.ResetPassword(raw, newPassword))

	_, err = svc.Login("aki@example.com", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, err := svc.Login("aki@example.com", newPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	svc, _, tokens := newAuthFixture()

	assert.NoError(t, svc.ForgotPassword("nobody@example.com"))
	assert.Empty(t, tokens.tokens)
}

func TestJWTRoundTrip(t *testing.T) {
	svc, _, _ := newAuthFixture()

	user, err := svc.Register("aki@example.com", "Aki", testPassword)
	require.NoError(t, err)

	token, err := svc.GenerateJWT(user)
	require.NoError(t, err)

	claims, err := svc.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims["user_id"])

	_, err = svc.VerifyJWT(token + "tampered")
	assert.Error(t, err)
}
