package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"paydesk/internal/models"

	"github.com/redis/go-redis/v9"
)

// Cache keys
const (
	activeAccountsKey = "payment_accounts:active"
	balanceKeyPrefix  = "balance:"
)

// CacheService wraps Redis with typed helpers for the entities the API
// reads most often.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, ttl time.Duration) *CacheService {
	return &CacheService{client: client, ttl: ttl}
}

func (s *CacheService) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}

// GetActiveAccounts returns the cached active payment account list.
func (s *CacheService) GetActiveAccounts(ctx context.Context) ([]models.PaymentAccount, error) {
	val, err := s.client.Get(ctx, activeAccountsKey).Result()
	if err != nil {
		return nil, err
	}
	var accounts []models.PaymentAccount
	if err := json.Unmarshal([]byte(val), &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// SetActiveAccounts caches the active payment account list.
func (s *CacheService) SetActiveAccounts(ctx context.Context, accounts []models.PaymentAccount) error {
	data, err := json.Marshal(accounts)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, activeAccountsKey, data, s.ttl).Err()
}

// InvalidateActiveAccounts drops the cached account list after admin edits.
func (s *CacheService) InvalidateActiveAccounts(ctx context.Context) error {
	return s.client.Del(ctx, activeAccountsKey).Err()
}

// GetBalance returns the cached balance for a user.
func (s *CacheService) GetBalance(ctx context.Context, userID uint) (*models.Balance, error) {
	val, err := s.client.Get(ctx, balanceKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	var balance models.Balance
	if err := json.Unmarshal([]byte(val), &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// SetBalance caches a user's balance.
func (s *CacheService) SetBalance(ctx context.Context, balance *models.Balance) error {
	data, err := json.Marshal(balance)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, balanceKey(balance.UserID), data, s.ttl).Err()
}

// InvalidateBalance drops a user's cached balance after a mutation.
func (s *CacheService) InvalidateBalance(ctx context.Context, userID uint) error {
	return s.client.Del(ctx, balanceKey(userID)).Err()
}

func balanceKey(userID uint) string {
	return fmt.Sprintf("%s%d", balanceKeyPrefix, userID)
}
