package services

import (
	"context"
	"fmt"
	"time"

	"tally/internal/cache"
	"tally/internal/core"
	"tally/internal/storage"
)

type AccountService struct {
	storage *storage.Repository
	cache   *cache.Cache[[]core.BankAccount]
}

func NewAccountService(storage *storage.Repository, cacheSize int, cacheTTL time.Duration) *AccountService {
	return &AccountService{
		storage: storage,
		cache:   cache.New[[]core.BankAccount](cacheSize, cacheTTL),
	}
}

type ConnectBankParams struct {
	BankName    string
	AccountType core.AccountType
	LastFour    string
}

// Connect registers a bank account. This is the demo flow: no credentials
// change hands, the account simply starts out connected.
func (s *AccountService) Connect(ctx context.Context, userID string, p ConnectBankParams) (core.BankAccount, error) {
	a := core.BankAccount{
		UserID:      userID,
		BankName:    p.BankName,
		AccountType: p.AccountType,
		LastFour:    p.LastFour,
		Connected:   true,
	}
	if err := a.Validate(); err != nil {
		return core.BankAccount{}, err
	}

	inserted, err := s.storage.InsertBankAccount(ctx, a)
	if err != nil {
		return core.BankAccount{}, fmt.Errorf("connect bank account: %w", err)
	}
	s.cache.Invalidate(userID)
	return inserted, nil
}

func (s *AccountService) Disconnect(ctx context.Context, userID, id string) error {
	if err := s.storage.SetAccountConnected(ctx, userID, id, false); err != nil {
		return err
	}
	s.cache.Invalidate(userID)
	return nil
}

func (s *AccountService) Delete(ctx context.Context, userID, id string) error {
	if err := s.storage.DeleteBankAccount(ctx, userID, id); err != nil {
		return err
	}
	s.cache.Invalidate(userID)
	return nil
}

func (s *AccountService) List(ctx context.Context, userID string) ([]core.BankAccount, error) {
	if accounts, ok := s.cache.Get(userID); ok {
		return accounts, nil
	}
	accounts, err := s.storage.ListBankAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	s.cache.Set(userID, accounts)
	return accounts, nil
}

// InvalidateCache drops the user's cached account list; the sync path
// updates accounts directly in the store.
func (s *AccountService) InvalidateCache(userID string) {
	s.cache.Invalidate(userID)
}
