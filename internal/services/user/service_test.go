package user

import (
	"testing"

	"paydesk/internal/models"
	"paydesk/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUserRepo struct {
	users    map[uint]*models.User
	balances map[uint]*models.Balance
	nextID   uint
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users:    make(map[uint]*models.User),
		balances: make(map[uint]*models.Balance),
		nextID:   1,
	}
}

func (r *memUserRepo) CreateWithBalance(u *models.User, b *models.Balance) error {
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = u
	b.UserID = u.ID
	r.balances[u.ID] = b
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
	u, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	u.Balance = r.balances[id]
	return u, nil
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
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, id)
	delete(r.balances, id)
	return nil
}

func (r *memUserRepo) List(offset, limit int) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) UsernameExists(username string, excludeID uint) (bool, error) {
	for _, u := range r.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) EmailExists(email string, excludeID uint) (bool, error) {
	for _, u := range r.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func validRegistration() models.CreateUserInput {
	return models.CreateUserInput{
		Username:  "johndoe",
		Email:     "john@example.com",
		Password:  "secret1!",
		FirstName: "John",
		LastName:  "Doe",
	}
}

func TestRegister(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewService(repo)

	created, err := svc.Register(validRegistration())
	require.NoError(t, err)

	assert.Equal(t, models.RoleUser, created.Role)
	assert.True(t, created.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret1!")))

	require.NotNil(t, created.Balance)
	assert.Equal(t, models.DefaultCurrency, created.Balance.Currency)
	assert.GreaterOrEqual(t, created.Balance.Amount, minSeedBalance)
	assert.LessOrEqual(t, created.Balance.Amount, maxSeedBalance)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.CreateUserInput)
	}{
		{"short username", func(in *models.CreateUserInput) { in.Username = "ab" }},
		{"username with symbols", func(in *models.CreateUserInput) { in.Username = "john.doe!" }},
		{"bad email", func(in *models.CreateUserInput) { in.Email = "not-an-email" }},
		{"short password", func(in *models.CreateUserInput) { in.Password = "ab1" }},
		{"short first name", func(in *models.CreateUserInput) { in.FirstName = "J" }},
		{"short last name", func(in *models.CreateUserInput) { in.LastName = "D" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newMemUserRepo())
			input := validRegistration()
			tt.mutate(&input)

			_, err := svc.Register(input)
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestRegister_Duplicates(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewService(repo)

	_, err := svc.Register(validRegistration())
	require.NoError(t, err)

	dupUsername := validRegistration()
	dupUsername.Email = "other@example.com"
	_, err = svc.Register(dupUsername)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	dupEmail := validRegistration()
	dupEmail.Username = "janedoe"
	_, err = svc.Register(dupEmail)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUpdate_SelfGuards(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewService(repo)

	created, err := svc.Register(validRegistration())
	require.NoError(t, err)
	created.Role = models.RoleAdmin

	adminRole := models.RoleUser
	_, err = svc.Update(created.ID, created.ID, models.UpdateUserInput{Role: &adminRole})
	assert.ErrorIs(t, err, ErrSelfModification)

	inactive := false
	_, err = svc.Update(created.ID, created.ID, models.UpdateUserInput{IsActive: &inactive})
	assert.ErrorIs(t, err, ErrSelfModification)

	// Editing one's own name is fine.
	name := "Johnny"
	updated, err := svc.Update(created.ID, created.ID, models.UpdateUserInput{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Johnny", updated.FirstName)
}

func TestUpdate_TakenIdentifiers(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewService(repo)

	first, err := svc.Register(validRegistration())
	require.NoError(t, err)

	other := validRegistration()
	other.Username = "janedoe"
	other.Email = "jane@example.com"
	second, err := svc.Register(other)
	require.NoError(t, err)

	username := first.Username
	_, err = svc.Update(99, second.ID, models.UpdateUserInput{Username: &username})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	email := first.Email
	_, err = svc.Update(99, second.ID, models.UpdateUserInput{Email: &email})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestDelete(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewService(repo)

	created, err := svc.Register(validRegistration())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(created.ID, created.ID), ErrSelfDeletion)

	require.NoError(t, svc.Delete(99, created.ID))
	assert.ErrorIs(t, svc.Delete(99, created.ID), ErrNotFound)
}
