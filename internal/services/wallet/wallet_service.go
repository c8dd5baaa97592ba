package wallet

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/datamartgh/backend/internal/models"
	"github.com/datamartgh/backend/internal/utils"
)

var (
	// ErrInsufficientFunds is returned when a debit would overdraw the wallet
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrWalletNotFound is returned when no wallet exists for the user
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrInvalidAmount is returned for zero or negative amounts
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Actor identifies who performed an admin-initiated wallet operation
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

// WalletService owns wallet balances and the append-only transaction history.
// It is the only component that mutates balances; every mutation creates
// exactly one Transaction record in the same database transaction.
type WalletService struct {
	db *gorm.DB
}

// NewWalletService creates a new wallet service
func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{db: db}
}

// GetOrCreateWallet gets a user's wallet or creates one if it doesn't exist
func (s *WalletService) GetOrCreateWallet(userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet

	err := s.db.Where("user_id = ?", userID).First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error finding wallet: %w", err)
	}

	wallet = models.Wallet{
		UserID:   userID,
		Currency: models.CurrencyGHS,
		Balance:  0,
	}

	if err := s.db.Create(&wallet).Error; err != nil {
		return nil, fmt.Errorf("error creating wallet: %w", err)
	}

	return &wallet, nil
}

// GetWallet gets the wallet for a user
func (s *WalletService) GetWallet(userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("error finding wallet: %w", err)
	}
	return &wallet, nil
}

// CheckSufficient reports whether the user's balance covers the given amount.
// This is advisory only: DebitWithTx re-validates inside the transaction.
func (s *WalletService) CheckSufficient(userID uuid.UUID, amount float64) (bool, error) {
	wallet, err := s.GetWallet(userID)
	if err != nil {
		return false, err
	}
	return wallet.Balance >= amount, nil
}

// DebitWithTx removes funds from a wallet inside an existing transaction.
// The balance check is a conditional UPDATE so that two concurrent debits
// can never overdraw the wallet regardless of isolation level.
func (s *WalletService) DebitWithTx(tx *gorm.DB, userID uuid.UUID, amount float64, txType string, orderID *uuid.UUID, actor *Actor, description string, metadata models.JSON) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var wallet models.Wallet
	if err := tx.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("error finding wallet: %w", err)
	}

	result := tx.Model(&models.Wallet{}).
		Where("id = ? AND balance >= ?", wallet.ID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return nil, fmt.Errorf("error updating wallet balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrInsufficientFunds
	}

	// Re-read inside the transaction so balance_before/_after are exact
	if err := tx.First(&wallet, "id = ?", wallet.ID).Error; err != nil {
		return nil, fmt.Errorf("error reloading wallet: %w", err)
	}

	transaction := models.Transaction{
		WalletID:      wallet.ID,
		UserID:        userID,
		OrderID:       orderID,
		Type:          txType,
		Amount:        -amount, // Negative for debit
		Currency:      wallet.Currency,
		Status:        "completed",
		Reference:     utils.GenerateReference("TXN"),
		Description:   description,
		MetaData:      metadata,
		BalanceBefore: wallet.Balance + amount,
		BalanceAfter:  wallet.Balance,
	}
	if actor != nil {
		transaction.ActorID = &actor.ID
		transaction.ActorRole = actor.Role
	}

	if err := tx.Create(&transaction).Error; err != nil {
		return nil, fmt.Errorf("error creating transaction record: %w", err)
	}

	return &transaction, nil
}

// CreditWithTx adds funds to a wallet inside an existing transaction
func (s *WalletService) CreditWithTx(tx *gorm.DB, userID uuid.UUID, amount float64, txType string, orderID *uuid.UUID, actor *Actor, description string, metadata models.JSON) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var wallet models.Wallet
	if err := tx.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("error finding wallet: %w", err)
	}

	result := tx.Model(&models.Wallet{}).
		Where("id = ?", wallet.ID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return nil, fmt.Errorf("error updating wallet balance: %w", result.Error)
	}

	if err := tx.First(&wallet, "id = ?", wallet.ID).Error; err != nil {
		return nil, fmt.Errorf("error reloading wallet: %w", err)
	}

	transaction := models.Transaction{
		WalletID:      wallet.ID,
		UserID:        userID,
		OrderID:       orderID,
		Type:          txType,
		Amount:        amount,
		Currency:      wallet.Currency,
		Status:        "completed",
		Reference:     utils.GenerateReference("TXN"),
		Description:   description,
		MetaData:      metadata,
		BalanceBefore: wallet.Balance - amount,
		BalanceAfter:  wallet.Balance,
	}
	if actor != nil {
		transaction.ActorID = &actor.ID
		transaction.ActorRole = actor.Role
	}

	if err := tx.Create(&transaction).Error; err != nil {
		return nil, fmt.Errorf("error creating transaction record: %w", err)
	}

	return &transaction, nil
}

// Credit adds funds to a wallet in its own transaction
func (s *WalletService) Credit(userID uuid.UUID, amount float64, txType string, actor *Actor, description string, metadata models.JSON) (*models.Transaction, error) {
	var transaction *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		transaction, err = s.CreditWithTx(tx, userID, amount, txType, nil, actor, description, metadata)
		return err
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// Debit removes funds from a wallet in its own transaction
func (s *WalletService) Debit(userID uuid.UUID, amount float64, txType string, actor *Actor, description string, metadata models.JSON) (*models.Transaction, error) {
	var transaction *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		transaction, err = s.DebitWithTx(tx, userID, amount, txType, nil, actor, description, metadata)
		return err
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// AdminCredit adds funds to a user's wallet on behalf of a staff actor
func (s *WalletService) AdminCredit(userID uuid.UUID, amount float64, actor Actor, description string) (*models.Transaction, error) {
	return s.Credit(userID, amount, models.TransactionTypeAdminCredit, &actor, description, nil)
}

// AdminDebit removes funds from a user's wallet on behalf of a staff actor.
// Fails with ErrInsufficientFunds when the balance does not cover the amount.
func (s *WalletService) AdminDebit(userID uuid.UUID, amount float64, actor Actor, description string) (*models.Transaction, error) {
	return s.Debit(userID, amount, models.TransactionTypeAdminDebit, &actor, description, nil)
}

// GetTransactionHistory gets transaction history for a user's wallet
func (s *WalletService) GetTransactionHistory(userID uuid.UUID, page, pageSize int) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	if err := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("error counting transactions: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("error finding transactions: %w", err)
	}

	return transactions, total, nil
}
