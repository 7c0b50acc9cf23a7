package transaction

import (
	"context"
	"sync"
	"testing"
	"time"

	"paydesk/internal/models"
	"paydesk/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memTxRepo is an in-memory TransactionRepository. ExecuteInTransaction
// serializes callers the way the row lock does in the real store.
type memTxRepo struct {
	mu       sync.Mutex
	byRef    map[string]*models.Transaction
	balances map[uint]float64
	credits  int
}

func newMemTxRepo() *memTxRepo {
	return &memTxRepo{
		byRef:    make(map[string]*models.Transaction),
		balances: make(map[uint]float64),
	}
}

func (r *memTxRepo) Create(tx *models.Transaction) error {
	r.byRef[tx.TransactionID] = tx
	return nil
}

func (r *memTxRepo) GetByTransactionID(transactionID string) (*models.Transaction, error) {
	tx, ok := r.byRef[transactionID]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	return tx, nil
}

func (r *memTxRepo) GetByTransactionIDForUser(transactionID string, userID uint) (*models.Transaction, error) {
	tx, ok := r.byRef[transactionID]
	if !ok || tx.UserID != userID {
		return nil, repositories.ErrTransactionNotFound
	}
	return tx, nil
}

func (r *memTxRepo) GetByTransactionIDForUpdate(transactionID string) (*models.Transaction, error) {
	return r.GetByTransactionID(transactionID)
}

func (r *memTxRepo) Update(tx *models.Transaction) error {
	r.byRef[tx.TransactionID] = tx
	return nil
}

func (r *memTxRepo) CreditUserBalance(userID uint, amount float64) error {
	if _, ok := r.balances[userID]; !ok {
		return repositories.ErrBalanceNotFound
	}
	r.balances[userID] += amount
	r.credits++
	return nil
}

func (r *memTxRepo) ListByUser(userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	var out []models.Transaction
	for _, tx := range r.byRef {
		if tx.UserID == userID {
			out = append(out, *tx)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memTxRepo) ListAll(filters models.TransactionFilters, limit, offset int) ([]models.Transaction, int64, error) {
	var out []models.Transaction
	for _, tx := range r.byRef {
		if filters.Status != "" && tx.Status != filters.Status {
			continue
		}
		out = append(out, *tx)
	}
	return out, int64(len(out)), nil
}

func (r *memTxRepo) ListPending() ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range r.byRef {
		if tx.Status == models.StatusPending {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *memTxRepo) Stats() (*models.TransactionStats, error) {
	stats := &models.TransactionStats{}
	for _, tx := range r.byRef {
		stats.Total++
		switch tx.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusCompleted:
			stats.Completed++
		}
	}
	return stats, nil
}

func (r *memTxRepo) ExecuteInTransaction(fn func(repositories.TransactionRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r)
}

type memBalanceCache struct {
	mu          sync.Mutex
	invalidated []uint
}

func (c *memBalanceCache) InvalidateBalance(ctx context.Context, userID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, userID)
	return nil
}

func seedTransaction(repo *memTxRepo, ref string, userID uint) *models.Transaction {
	expires := time.Now().Add(24 * time.Hour)
	tx := &models.Transaction{
		TransactionID:    ref,
		UserID:           userID,
		PaymentAccountID: 1,
		Amount:           100,
		Commission:       2,
		TotalAmount:      102,
		Status:           models.StatusPending,
		ExpiresAt:        &expires,
	}
	repo.byRef[ref] = tx
	repo.balances[userID] = 0
	return tx
}

func TestSetStatus_InvalidStatus(t *testing.T) {
	svc := NewService(newMemTxRepo(), nil)

	_, err := svc.SetStatus(context.Background(), "TXN1", "done", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSetStatus_NotFound(t *testing.T) {
	svc := NewService(newMemTxRepo(), nil)

	_, err := svc.SetStatus(context.Background(), "TXN-missing", models.StatusCompleted, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApprove_CreditsAmountNotTotal(t *testing.T) {
	repo := newMemTxRepo()
	cache := &memBalanceCache{}
	svc := NewService(repo, cache)
	seedTransaction(repo, "TXN1", 7)

	tx, err := svc.Approve(context.Background(), "TXN1", "verified against bank statement")
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, tx.Status)
	assert.Equal(t, "verified against bank statement", tx.AdminNotes)
	// The commission stays with the operator.
	assert.Equal(t, 100.0, repo.balances[7])
	assert.Equal(t, 1, repo.credits)
	assert.Equal(t, []uint{7}, cache.invalidated)
}

func TestApprove_SecondApprovalDoesNotRecredit(t *testing.T) {
	repo := newMemTxRepo()
	svc := NewService(repo, nil)
	seedTransaction(repo, "TXN1", 7)

	_, err := svc.Approve(context.Background(), "TXN1", "")
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), "TXN1", "second review")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.credits)
	assert.Equal(t, 100.0, repo.balances[7])
}

func TestReject_LeavesBalanceUntouched(t *testing.T) {
	repo := newMemTxRepo()
	svc := NewService(repo, nil)
	seedTransaction(repo, "TXN1", 7)

	tx, err := svc.Reject(context.Background(), "TXN1", "no matching payment found")
	require.NoError(t, err)

	assert.Equal(t, models.StatusFailed, tx.Status)
	assert.Equal(t, 0, repo.credits)
	assert.Equal(t, 0.0, repo.balances[7])
}

func TestSetStatus_CancelAfterCompleteKeepsCredit(t *testing.T) {
	repo := newMemTxRepo()
	svc := NewService(repo, nil)
	seedTransaction(repo, "TXN1", 7)

	_, err := svc.Approve(context.Background(), "TXN1", "")
	require.NoError(t, err)

	tx, err := svc.SetStatus(context.Background(), "TXN1", models.StatusCancelled, "cancelled after review")
	require.NoError(t, err)

	assert.Equal(t, models.StatusCancelled, tx.Status)
	assert.Equal(t, 1, repo.credits)
	assert.Equal(t, 100.0, repo.balances[7])
}

func TestApprove_MissingBalanceRow(t *testing.T) {
	repo := newMemTxRepo()
	svc := NewService(repo, nil)
	seedTransaction(repo, "TXN1", 7)
	delete(repo.balances, 7)

	_, err := svc.Approve(context.Background(), "TXN1", "")
	assert.ErrorIs(t, err, ErrBalanceMissing)

	// The transition aborted, so the transaction stays pending.
	tx, getErr := repo.GetByTransactionID("TXN1")
	require.NoError(t, getErr)
	assert.Equal(t, models.StatusPending, tx.Status)
}

func TestApprove_ConcurrentApprovalsCreditOnce(t *testing.T) {
	repo := newMemTxRepo()
	svc := NewService(repo, &memBalanceCache{})
	seedTransaction(repo, "TXN1", 7)

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Approve(context.Background(), "TXN1", "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, repo.credits)
	assert.Equal(t, 100.0, repo.balances[7])
}
