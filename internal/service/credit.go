package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thiagoricci/Rewlio/internal/config"
	"github.com/thiagoricci/Rewlio/internal/constants"
	"github.com/thiagoricci/Rewlio/internal/metrics"
	"github.com/thiagoricci/Rewlio/internal/model"
	"github.com/thiagoricci/Rewlio/internal/repository"
	"go.uber.org/zap"
)

type CreditService interface {
	// EnsureBalance lazily provisions the tenant account with the free
	// signup grant and fails when less than one credit remains.
	EnsureBalance(ctx context.Context, tenantID string) error
	DebitForSend(ctx context.Context, tenantID string, requestCode string) error
	Credit(ctx context.Context, tenantID string, amount int64, description string) error
	GetBalance(tenantID string) (int64, error)
	ListTransactions(tenantID string, limit, offset int) ([]model.CreditTransaction, error)
}

type credit struct {
	accounts     repository.CreditAccountRepository
	transactions repository.CreditTransactionRepository
	txManager    repository.TxManager
	signupGrant  int64
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewCreditService(accounts repository.CreditAccountRepository, transactions repository.CreditTransactionRepository,
	txManager repository.TxManager, cfg *config.Config, metrics *metrics.Metrics, logger *zap.Logger) CreditService {
	return &credit{
		accounts:     accounts,
		transactions: transactions,
		txManager:    txManager,
		signupGrant:  cfg.Credits.SignupGrant,
		metrics:      metrics,
		logger:       logger,
	}
}

func (s *credit) EnsureBalance(ctx context.Context, tenantID string) error {
	account, err := s.accounts.FindByTenantID(tenantID)
	if err == nil {
		if account.Balance < 1 {
			return NewServiceError(constants.ErrCodeInsufficientCredits, ErrInsufficientBalance)
		}
		return nil
	}

	if !errors.Is(err, repository.ErrAccountNotFound) {
		return NewServiceError(constants.ErrCodeInternalError, err)
	}

	if err := s.provisionAccount(ctx, tenantID); err != nil {
		return err
	}

	if s.signupGrant < 1 {
		return NewServiceError(constants.ErrCodeInsufficientCredits, ErrInsufficientBalance)
	}

	return nil
}

func (s *credit) provisionAccount(ctx context.Context, tenantID string) error {
	account := model.CreditAccount{
		TenantID:  tenantID,
		Balance:   s.signupGrant,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transaction := model.CreditTransaction{
		TenantID:       tenantID,
		Amount:         s.signupGrant,
		TxType:         model.CreditTxTypeFreeSignup,
		Description:    "Free signup credits",
		IdempotencyKey: "signup-" + tenantID,
		CreatedAt:      time.Now(),
	}

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.accounts.Create(ctx, &account); err != nil {
			return err
		}
		return s.transactions.Create(ctx, &transaction)
	})
	if err == nil {
		s.logger.Info("Credit account provisioned",
			zap.String("tenantID", tenantID),
			zap.Int64("grant", s.signupGrant))
		return nil
	}

	// Concurrent first calls for the same tenant race on provisioning;
	// losing the race is fine, the account exists either way.
	if errors.Is(err, repository.ErrAccountExists) || errors.Is(err, repository.ErrTransactionExists) {
		return nil
	}

	s.logger.Error("Failed to provision credit account",
		zap.Error(err),
		zap.String("tenantID", tenantID))

	return NewServiceError(constants.ErrCodeInternalError, err)
}

// DebitForSend burns one credit for a prompt that was handed to the carrier.
// The balance check and decrement are one conditional update, so concurrent
// sends for the same tenant cannot under-debit.
func (s *credit) DebitForSend(ctx context.Context, tenantID string, requestCode string) error {
	transaction := model.CreditTransaction{
		TenantID:       tenantID,
		Amount:         -1,
		TxType:         model.CreditTxTypeUsage,
		Description:    fmt.Sprintf("SMS sent for request %s", requestCode),
		IdempotencyKey: "debit-" + requestCode,
		CreatedAt:      time.Now(),
	}

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.accounts.Debit(ctx, tenantID, 1); err != nil {
			return err
		}
		return s.transactions.Create(ctx, &transaction)
	})
	if err == nil {
		s.metrics.CreditsDebited.Inc()
		return nil
	}

	if errors.Is(err, repository.ErrInsufficientBalance) {
		return NewServiceError(constants.ErrCodeInsufficientCredits, ErrInsufficientBalance)
	}

	s.logger.Error("Failed to debit credit",
		zap.Error(err),
		zap.String("tenantID", tenantID),
		zap.String("requestCode", requestCode))

	return NewServiceError(constants.ErrCodeInternalError, err)
}

func (s *credit) Credit(ctx context.Context, tenantID string, amount int64, description string) error {
	transaction := model.CreditTransaction{
		TenantID:       tenantID,
		Amount:         amount,
		TxType:         model.CreditTxTypePurchase,
		Description:    description,
		IdempotencyKey: fmt.Sprintf("credit-%s-%d", tenantID, time.Now().UnixNano()),
		CreatedAt:      time.Now(),
	}

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.accounts.Credit(ctx, tenantID, amount); err != nil {
			return err
		}
		return s.transactions.Create(ctx, &transaction)
	})
	if err != nil {
		s.logger.Error("Failed to credit account",
			zap.Error(err),
			zap.String("tenantID", tenantID),
			zap.Int64("amount", amount))
		return NewServiceError(constants.ErrCodeInternalError, err)
	}

	s.logger.Info("Account credited",
		zap.String("tenantID", tenantID),
		zap.Int64("amount", amount))

	return nil
}

func (s *credit) GetBalance(tenantID string) (int64, error) {
	account, err := s.accounts.FindByTenantID(tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return account.Balance, nil
}

func (s *credit) ListTransactions(tenantID string, limit, offset int) ([]model.CreditTransaction, error) {
	return s.transactions.ListByTenant(tenantID, limit, offset)
}
