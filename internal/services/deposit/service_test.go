package deposit

import (
	"context"
	"strings"
	"testing"
	"time"

	"paydesk/internal/models"
	"paydesk/internal/repositories"
	"paydesk/internal/services/card"
	"paydesk/internal/services/paymentaccount"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memAccountRepo struct {
	accounts map[uint]*models.PaymentAccount
}

func newMemAccountRepo(accounts ...*models.PaymentAccount) *memAccountRepo {
	r := &memAccountRepo{accounts: make(map[uint]*models.PaymentAccount)}
	for _, a := range accounts {
		r.accounts[a.ID] = a
	}
	return r
}

func (r *memAccountRepo) Create(account *models.PaymentAccount) error {
	r.accounts[account.ID] = account
	return nil
}

func (r *memAccountRepo) GetByID(id uint) (*models.PaymentAccount, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, repositories.ErrPaymentAccountNotFound
	}
	return a, nil
}

func (r *memAccountRepo) GetActiveByID(id uint) (*models.PaymentAccount, error) {
	a, ok := r.accounts[id]
	if !ok || !a.IsActive {
		return nil, repositories.ErrPaymentAccountNotFound
	}
	return a, nil
}

func (r *memAccountRepo) ListActive() ([]models.PaymentAccount, error) {
	var out []models.PaymentAccount
	for _, a := range r.accounts {
		if a.IsActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memAccountRepo) List() ([]models.PaymentAccount, error) {
	var out []models.PaymentAccount
	for _, a := range r.accounts {
		out = append(out, *a)
	}
	return out, nil
}

func (r *memAccountRepo) FindActiveByType(paymentType string) (*models.PaymentAccount, error) {
	var best *models.PaymentAccount
	for _, a := range r.accounts {
		if !a.IsActive || a.PaymentType != paymentType {
			continue
		}
		if best == nil || a.Priority < best.Priority || (a.Priority == best.Priority && a.ID < best.ID) {
			best = a
		}
	}
	if best == nil {
		return nil, repositories.ErrPaymentAccountNotFound
	}
	return best, nil
}

func (r *memAccountRepo) Update(account *models.PaymentAccount) error {
	r.accounts[account.ID] = account
	return nil
}

func (r *memAccountRepo) CountActive() (int64, error) {
	var n int64
	for _, a := range r.accounts {
		if a.IsActive {
			n++
		}
	}
	return n, nil
}

// memTxRepo stores created transactions; dupsRemaining makes the first N
// creates collide on the unique reference index.
type memTxRepo struct {
	created       []*models.Transaction
	dupsRemaining int
}

func (r *memTxRepo) Create(tx *models.Transaction) error {
	if r.dupsRemaining > 0 {
		r.dupsRemaining--
		return gorm.ErrDuplicatedKey
	}
	r.created = append(r.created, tx)
	return nil
}

func (r *memTxRepo) GetByTransactionID(string) (*models.Transaction, error) {
	return nil, repositories.ErrTransactionNotFound
}

func (r *memTxRepo) GetByTransactionIDForUser(string, uint) (*models.Transaction, error) {
	return nil, repositories.ErrTransactionNotFound
}

func (r *memTxRepo) GetByTransactionIDForUpdate(string) (*models.Transaction, error) {
	return nil, repositories.ErrTransactionNotFound
}

func (r *memTxRepo) Update(*models.Transaction) error { return nil }

func (r *memTxRepo) CreditUserBalance(uint, float64) error { return nil }

func (r *memTxRepo) ListByUser(uint, int, int) ([]models.Transaction, int64, error) {
	return nil, 0, nil
}

func (r *memTxRepo) ListAll(models.TransactionFilters, int, int) ([]models.Transaction, int64, error) {
	return nil, 0, nil
}

func (r *memTxRepo) ListPending() ([]models.Transaction, error) { return nil, nil }

func (r *memTxRepo) Stats() (*models.TransactionStats, error) {
	return &models.TransactionStats{}, nil
}

func (r *memTxRepo) ExecuteInTransaction(fn func(repositories.TransactionRepository) error) error {
	return fn(r)
}

type memCardRepo struct {
	cards []*models.UserCard
}

func (r *memCardRepo) Create(c *models.UserCard) error {
	r.cards = append(r.cards, c)
	return nil
}

func (r *memCardRepo) FindExisting(userID uint, lastFour, cardHolder string) (*models.UserCard, error) {
	for _, c := range r.cards {
		if c.UserID == userID && c.LastFour == lastFour && c.CardHolder == cardHolder {
			return c, nil
		}
	}
	return nil, repositories.ErrCardNotFound
}

func (r *memCardRepo) ListByUser(userID uint) ([]models.UserCard, error) {
	var out []models.UserCard
	for _, c := range r.cards {
		if c.UserID == userID && c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func cardAccount() *models.PaymentAccount {
	return &models.PaymentAccount{
		ID:          1,
		PaymentType: "visa",
		AccountType: models.AccountTypeCard,
		AccountDetails: models.JSON{
			"cardNumber": "4169123412341234",
			"cardHolder": "OPERATOR HOLDER",
			"bank":       "Kapital Bank",
		},
		MinAmount:  10,
		MaxAmount:  500,
		Commission: 2,
		IsActive:   true,
	}
}

func newTestService(txRepo *memTxRepo, cardRepo *memCardRepo, accounts ...*models.PaymentAccount) Service {
	accountService := paymentaccount.NewService(newMemAccountRepo(accounts...), nil)
	cardService := card.NewService(cardRepo, "test-secret")
	return NewService(accountService, txRepo, cardService)
}

func TestCreateDeposit_CardAccount(t *testing.T) {
	txRepo := &memTxRepo{}
	svc := newTestService(txRepo, &memCardRepo{}, cardAccount())

	result, err := svc.CreateDeposit(context.Background(), 7, 1, 100)
	require.NoError(t, err)

	tx := result.Transaction
	assert.True(t, strings.HasPrefix(tx.TransactionID, "TXN"))
	assert.Equal(t, uint(7), tx.UserID)
	assert.Equal(t, 100.0, tx.Amount)
	assert.Equal(t, 2.0, tx.Commission)
	assert.Equal(t, 102.0, tx.TotalAmount)
	assert.Equal(t, models.StatusPending, tx.Status)

	require.NotNil(t, tx.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(ExpiryWindow), *tx.ExpiresAt, 5*time.Second)

	assert.Equal(t, "4169-1234-1234-1234", result.PaymentDetails["cardNumber"])
	assert.Equal(t, "OPERATOR HOLDER", result.PaymentDetails["cardHolder"])
	assert.Equal(t, "Kapital Bank", result.PaymentDetails["bank"])

	require.Len(t, txRepo.created, 1)
}

func TestCreateDeposit_MobileAccount(t *testing.T) {
	account := &models.PaymentAccount{
		ID:          2,
		PaymentType: "m10",
		AccountType: models.AccountTypeMobile,
		AccountDetails: models.JSON{
			"phoneNumber": "+994500000000",
			"operator":    "m10",
		},
		MinAmount:  5,
		MaxAmount:  300,
		Commission: 0,
		IsActive:   true,
	}
	svc := newTestService(&memTxRepo{}, &memCardRepo{}, account)

	result, err := svc.CreateDeposit(context.Background(), 7, 2, 50)
	require.NoError(t, err)

	assert.Equal(t, "+994500000000", result.PaymentDetails["phoneNumber"])
	assert.Equal(t, "m10", result.PaymentDetails["operator"])
	assert.Equal(t, 0.0, result.Transaction.Commission)
	assert.Equal(t, 50.0, result.Transaction.TotalAmount)
}

func TestCreateDeposit_BankAccountPassesDetailsThrough(t *testing.T) {
	account := &models.PaymentAccount{
		ID:          3,
		PaymentType: "wire",
		AccountType: models.AccountTypeBank,
		AccountDetails: models.JSON{
			"iban": "AZ21NABZ00000000137010001944",
			"bank": "PASHA Bank",
		},
		MinAmount:  100,
		MaxAmount:  10000,
		Commission: 1.5,
		IsActive:   true,
	}
	svc := newTestService(&memTxRepo{}, &memCardRepo{}, account)

	result, err := svc.CreateDeposit(context.Background(), 7, 3, 200)
	require.NoError(t, err)

	assert.Equal(t, "AZ21NABZ00000000137010001944", result.PaymentDetails["iban"])
	assert.Equal(t, 3.0, result.Transaction.Commission)
}

func TestCreateDeposit_AmountValidation(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		errMsg string
	}{
		{"zero", 0, "amount must be greater than 0"},
		{"negative", -10, "amount must be greater than 0"},
		{"below minimum", 5, "amount must be between 10 and 500 AZN"},
		{"above maximum", 600, "amount must be between 10 and 500 AZN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txRepo := &memTxRepo{}
			svc := newTestService(txRepo, &memCardRepo{}, cardAccount())

			_, err := svc.CreateDeposit(context.Background(), 7, 1, tt.amount)
			require.Error(t, err)
			assert.EqualError(t, err, tt.errMsg)
			assert.Empty(t, txRepo.created, "nothing should be persisted for an invalid amount")
		})
	}
}

func TestCreateDeposit_InactiveAccount(t *testing.T) {
	account := cardAccount()
	account.IsActive = false
	svc := newTestService(&memTxRepo{}, &memCardRepo{}, account)

	_, err := svc.CreateDeposit(context.Background(), 7, 1, 100)
	assert.ErrorIs(t, err, ErrAccountNotAvailable)
}

func TestCreateDeposit_UnknownAccount(t *testing.T) {
	svc := newTestService(&memTxRepo{}, &memCardRepo{}, cardAccount())

	_, err := svc.CreateDeposit(context.Background(), 7, 99, 100)
	assert.ErrorIs(t, err, ErrAccountNotAvailable)
}

func TestCreateDeposit_SnapshotSurvivesAccountEdits(t *testing.T) {
	account := cardAccount()
	txRepo := &memTxRepo{}
	svc := newTestService(txRepo, &memCardRepo{}, account)

	result, err := svc.CreateDeposit(context.Background(), 7, 1, 100)
	require.NoError(t, err)

	account.AccountDetails["cardNumber"] = "5500000000000004"
	account.AccountDetails["cardHolder"] = "NEW HOLDER"

	assert.Equal(t, "4169-1234-1234-1234", result.Transaction.PaymentDetails["cardNumber"])
	assert.Equal(t, "OPERATOR HOLDER", result.Transaction.PaymentDetails["cardHolder"])
}

func TestCreateDeposit_RetriesOnReferenceCollision(t *testing.T) {
	txRepo := &memTxRepo{dupsRemaining: 2}
	svc := newTestService(txRepo, &memCardRepo{}, cardAccount())

	result, err := svc.CreateDeposit(context.Background(), 7, 1, 100)
	require.NoError(t, err)
	require.Len(t, txRepo.created, 1)
	assert.Equal(t, result.Transaction.TransactionID, txRepo.created[0].TransactionID)
}

func TestCreateDeposit_GivesUpAfterRepeatedCollisions(t *testing.T) {
	txRepo := &memTxRepo{dupsRemaining: maxReferenceAttempts}
	svc := newTestService(txRepo, &memCardRepo{}, cardAccount())

	_, err := svc.CreateDeposit(context.Background(), 7, 1, 100)
	assert.Error(t, err)
	assert.Empty(t, txRepo.created)
}

func TestCreateCardDeposit(t *testing.T) {
	txRepo := &memTxRepo{}
	cardRepo := &memCardRepo{}
	svc := newTestService(txRepo, cardRepo, cardAccount())

	data := models.CardData{
		CardNumber: "4111111111111111",
		CardHolder: "JOHN DOE",
		Expiry:     "09/27",
		CVV:        "123",
		Bank:       "Kapital Bank",
	}

	result, err := svc.CreateCardDeposit(context.Background(), 7, 1, 100, data, true)
	require.NoError(t, err)
	assert.True(t, result.CardSaved)

	// The snapshot never carries the full card number or CVV.
	cardData, ok := result.Transaction.PaymentDetails["cardData"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "1111", cardData["lastFourDigits"])
	assert.Equal(t, "JOHN DOE", cardData["cardHolder"])
	assert.NotContains(t, cardData, "cardNumber")
	assert.NotContains(t, cardData, "cvv")

	require.Len(t, cardRepo.cards, 1)
	saved := cardRepo.cards[0]
	assert.Equal(t, "1111", saved.LastFour)
	assert.Equal(t, "visa", saved.CardType)
	assert.NotEqual(t, data.CardNumber, saved.CardNumber)
	assert.NotEqual(t, data.CVV, saved.CVV)
}

func TestCreateCardDeposit_SaveFailureDoesNotFailDeposit(t *testing.T) {
	txRepo := &memTxRepo{}
	cardRepo := &memCardRepo{}
	svc := newTestService(txRepo, cardRepo, cardAccount())

	// Missing CVV makes the card save fail while the deposit itself is fine.
	data := models.CardData{
		CardNumber: "4111111111111111",
		CardHolder: "JOHN DOE",
		Expiry:     "09/27",
	}

	result, err := svc.CreateCardDeposit(context.Background(), 7, 1, 100, data, true)
	require.NoError(t, err)
	assert.False(t, result.CardSaved)
	assert.Empty(t, cardRepo.cards)
	require.Len(t, txRepo.created, 1)
}

func TestCreateCardDeposit_RequiresCardNumber(t *testing.T) {
	svc := newTestService(&memTxRepo{}, &memCardRepo{}, cardAccount())

	_, err := svc.CreateCardDeposit(context.Background(), 7, 1, 100, models.CardData{}, false)
	assert.ErrorIs(t, err, ErrCardDataRequired)
}

func TestFormatCardNumber(t *testing.T) {
	assert.Equal(t, "4169-1234-1234-1234", FormatCardNumber("4169123412341234"))
	assert.Equal(t, "4169-1234-1234-1234", FormatCardNumber("4169 1234 1234 1234"))
	assert.Equal(t, "4169", FormatCardNumber("4169"))
	assert.Equal(t, "", FormatCardNumber(""))
}
