package user

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/coursebook/pkg/errors"
)

type memoryRepo struct {
	mu    sync.Mutex
	users map[uint]*User
}

func (r *memoryRepo) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrEmailDuplicate
		}
	}
	u.ID = uint(len(r.users) + 1)
	r.users[u.ID] = u
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, id uint) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (r *memoryRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memoryRepo) UpdateAvatar(_ context.Context, id uint, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.SetAvatar(url)
	return nil
}

func newTestService() Service {
	return &service{repo: &memoryRepo{users: map[uint]*User{}}, cost: bcrypt.MinCost}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, " Student@Example.com ", "passw0rd", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "student@example.com", u.Email)
	assert.NotEqual(t, "passw0rd", u.Password)

	logged, err := svc.Login(ctx, "student@example.com", "passw0rd")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	_, err = svc.Login(ctx, "student@example.com", "wrongpass1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	_, err = svc.Login(ctx, "nobody@example.com", "passw0rd")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "not-an-email", "passw0rd", "Ada")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(ctx, "a@b.co", "password", "Ada")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.Register(ctx, "a@b.co", "passw0rd", "A")
	assert.ErrorIs(t, err, ErrInvalidDisplayName)

	_, err = svc.Register(ctx, "a@b.co", "passw0rd", "Ada")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "A@B.co", "passw0rd", "Ada")
	assert.ErrorIs(t, err, ErrEmailDuplicate)
}

func TestAvatarKey(t *testing.T) {
	assert.Equal(t, "avatars/42.png", AvatarKey(42, "png"))
}
