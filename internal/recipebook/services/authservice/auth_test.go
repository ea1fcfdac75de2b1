package authservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/dkravets/recipebook/internal/pkg/config"
	"github.com/dkravets/recipebook/internal/recipebook/domain/models"
	"github.com/dkravets/recipebook/internal/recipebook/repository/userrepo"
	"github.com/dkravets/recipebook/internal/recipebook/services/authservice"
	"github.com/dkravets/recipebook/internal/recipebook/services/validate"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	nextID int64
	users  map[int64]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]models.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, u models.User) (models.User, error) {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return models.User{}, userrepo.ErrAlreadyExists
		}
	}

	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	f.users[u.ID] = u

	return u, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}

	return models.User{}, userrepo.ErrNotFound
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id int64) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, userrepo.ErrNotFound
	}

	return u, nil
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, u models.User) (models.User, error) {
	if _, ok := f.users[u.ID]; !ok {
		return models.User{}, userrepo.ErrNotFound
	}

	f.users[u.ID] = u

	return u, nil
}

var testAuthCfg = config.Auth{TTL: time.Hour, Secret: "test-secret"}

func TestRegisterHashesPasswordAndNormalizesEmail(t *testing.T) {
	as := authservice.New(newFakeUserRepo(), testAuthCfg)

	u, err := as.Register(context.Background(), authservice.RegisterRequest{
		Email:    "  Chef@EXAMPLE.Com ",
		Password: "secret1",
		Name:     "Chef",
	})
	require.NoError(t, err)
	require.Equal(t, "Chef@example.com", u.Email)
	require.NotEqual(t, "secret1", u.PasswordHash)
	require.True(t, u.Active)
}

func TestRegisterEmptyEmail(t *testing.T) {
	as := authservice.New(newFakeUserRepo(), testAuthCfg)

	_, err := as.Register(context.Background(), authservice.RegisterRequest{
		Email:    "",
		Password: "secret1",
	})

	ve, ok := validate.AsErrors(err)
	require.True(t, ok)
	require.Contains(t, ve, "email")
}

func TestRegisterShortPassword(t *testing.T) {
	as := authservice.New(newFakeUserRepo(), testAuthCfg)

	_, err := as.Register(context.Background(), authservice.RegisterRequest{
		Email:    "chef@example.com",
		Password: "pw",
	})

	ve, ok := validate.AsErrors(err)
	require.True(t, ok)
	require.Contains(t, ve, "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	as := authservice.New(newFakeUserRepo(), testAuthCfg)

	req := authservice.RegisterRequest{Email: "chef@example.com", Password: "secret1"}

	_, err := as.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = as.Register(context.Background(), req)
	require.ErrorIs(t, err, authservice.ErrAlreadyExists)
}

func TestLoginAndAuthenticate(t *testing.T) {
	as := authservice.New(newFakeUserRepo(), testAuthCfg)

	u, err := as.Register(context.Background(), authservice.RegisterRequest{
		Email:    "chef@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	token, err := as.Login(context.Background(), "chef@example.com", "secret1")
	require.NoError(t, err)

	resolved, err := as.Authenticate(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, u.ID, resolved.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	as := authservice.New(newFakeUserRepo(), testAuthCfg)

	_, err := as.Register(context.Background(), authservice.RegisterRequest{
		Email:    "chef@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	_, err = as.Login(context.Background(), "chef@example.com", "wrong")
	require.ErrorIs(t, err, authservice.ErrUnauthenticated)
}

func TestLoginInactiveUser(t *testing.T) {
	repo := newFakeUserRepo()
	as := authservice.New(repo, testAuthCfg)

	u, err := as.Register(context.Background(), authservice.RegisterRequest{
		Email:    "chef@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	u.Active = false
	repo.users[u.ID] = u

	_, err = as.Login(context.Background(), "chef@example.com", "secret1")
	require.ErrorIs(t, err, authservice.ErrUnauthenticated)
}

func TestAuthenticateGarbageToken(t *testing.T) {
	as := authservice.New(newFakeUserRepo(), testAuthCfg)

	_, err := as.Authenticate(context.Background(), "garbage")
	require.ErrorIs(t, err, authservice.ErrUnauthenticated)
}

func TestUpdateProfileChangesPassword(t *testing.T) {
	as := authservice.New(newFakeUserRepo(), testAuthCfg)

	u, err := as.Register(context.Background(), authservice.RegisterRequest{
		Email:    "chef@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	newPassword := "secret2"
	newName := "Head Chef"

	_, err = as.UpdateProfile(context.Background(), u.ID, authservice.UpdateProfileRequest{
		Password: &newPassword,
		Name:     &newName,
	})
	require.NoError(t, err)

	_, err = as.Login(context.Background(), "chef@example.com", "secret2")
	require.NoError(t, err)

	_, err = as.Login(context.Background(), "chef@example.com", "secret1")
	require.ErrorIs(t, err, authservice.ErrUnauthenticated)
}

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"User@EXAMPLE.COM", "User@example.com"},
		{" user@Example.Com ", "user@example.com"},
		{"no-at-sign", "no-at-sign"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, authservice.NormalizeEmail(tc.in))
	}
}
