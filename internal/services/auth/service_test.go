package auth

import (
	"testing"

	"paydesk/internal/models"
	"paydesk/internal/repositories"
	"paydesk/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUserRepo struct {
	users map[uint]*models.User
}

func newMemUserRepo(users ...*models.User) *memUserRepo {
	r := &memUserRepo{users: make(map[uint]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) CreateWithBalance(u *models.User, b *models.Balance) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) GetByID(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByIDWithBalance(id uint) (*models.User, error) {
	return r.GetByID(id)
}

func (r *memUserRepo) GetByUsernameOrEmail(identifier string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memUserRepo) Update(u *models.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) Delete(id uint) error {
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) List(offset, limit int) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (r *memUserRepo) UsernameExists(username string, excludeID uint) (bool, error) {
	return false, nil
}

func (r *memUserRepo) EmailExists(email string, excludeID uint) (bool, error) {
	return false, nil
}

func seedUser(t *testing.T, password string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	u := &models.User{
		Username: "johndoe",
		Email:    "john@example.com",
		Password: string(hashed),
		Role:     models.RoleUser,
		IsActive: true,
	}
	u.ID = 7
	return u
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	stored := seedUser(t, "secret1!")
	repo := newMemUserRepo(stored)
	svc := NewService(repo)

	t.Run("by username", func(t *testing.T) {
		logged, token, err := svc.Login("johndoe", "secret1!")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, logged.ID)
		assert.NotNil(t, logged.LastLogin)

		claims, err := utils.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, claims.UserID)
		assert.Equal(t, models.RoleUser, claims.Role)
	})

	t.Run("by email", func(t *testing.T) {
		_, _, err := svc.Login("john@example.com", "secret1!")
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login("johndoe", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, _, err := svc.Login("nobody", "secret1!")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	stored := seedUser(t, "secret1!")
	stored.IsActive = false
	svc := NewService(newMemUserRepo(stored))

	_, _, err := svc.Login("johndoe", "secret1!")
	assert.ErrorIs(t, err, ErrAccountDeactivated)
}

func TestChangePassword(t *testing.T) {
	stored := seedUser(t, "secret1!")
	repo := newMemUserRepo(stored)
	svc := NewService(repo)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(stored.ID, "wrong", "newsecret1!")
		assert.Error(t, err)
	})

	t.Run("weak new password", func(t *testing.T) {
		err := svc.ChangePassword(stored.ID, "secret1!", "abc")
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(stored.ID, "secret1!", "newsecret1!"))
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users[stored.ID].Password), []byte("newsecret1!")))
	})
}
