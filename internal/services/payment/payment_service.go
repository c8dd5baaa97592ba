package payment

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/datamartgh/backend/internal/models"
	"github.com/datamartgh/backend/internal/services/wallet"
	"github.com/datamartgh/backend/internal/utils"
)

var (
	// ErrPaymentNotFound is returned when no payment matches the reference
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrPaymentNotConfirmed is returned when the provider reports the
	// checkout as anything other than successful
	ErrPaymentNotConfirmed = errors.New("payment not confirmed by provider")
)

// DepositProvider collects a wallet top-up through an external gateway.
// VerifyDeposit reports whether the provider confirmed the checkout and the
// confirmed amount in GHS.
type DepositProvider interface {
	InitializeDeposit(amount float64, email, reference, callbackURL string) (string, error)
	VerifyDeposit(reference string) (confirmed bool, amount float64, err error)
}

// PaymentService handles wallet deposits through external payment gateways.
// The wallet is credited only after provider confirmation, in the same
// database transaction that marks the payment completed, so a replayed
// webhook can never credit twice.
type PaymentService struct {
	db          *gorm.DB
	wallets     *wallet.WalletService
	provider    DepositProvider
	callbackURL string
}

// NewPaymentService creates a new payment service
func NewPaymentService(db *gorm.DB, walletSvc *wallet.WalletService, provider DepositProvider, callbackURL string) *PaymentService {
	return &PaymentService{
		db:          db,
		wallets:     walletSvc,
		provider:    provider,
		callbackURL: callbackURL,
	}
}

// InitiateDeposit starts a deposit checkout and records the pending payment
func (s *PaymentService) InitiateDeposit(userID uuid.UUID, amount float64, email string) (*models.Payment, error) {
	if amount <= 0 {
		return nil, wallet.ErrInvalidAmount
	}

	payment := models.Payment{
		UserID:    userID,
		Provider:  models.PaymentProviderPaystack,
		Amount:    amount,
		Currency:  models.CurrencyGHS,
		Status:    models.PaymentStatusPending,
		Reference: utils.GenerateReference("DEP"),
	}

	authURL, err := s.provider.InitializeDeposit(amount, email, payment.Reference, s.callbackURL)
	if err != nil {
		return nil, fmt.Errorf("error initializing deposit: %w", err)
	}
	payment.AuthURL = authURL

	if err := s.db.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("error creating payment record: %w", err)
	}

	return &payment, nil
}

// ConfirmDeposit verifies a checkout with the provider and credits the
// wallet. Confirming an already-completed payment is a no-op success so
// webhook deliveries stay idempotent.
func (s *PaymentService) ConfirmDeposit(reference string) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.Where("reference = ?", reference).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("error finding payment: %w", err)
	}

	if payment.Status == models.PaymentStatusCompleted {
		return &payment, nil
	}

	confirmed, amount, err := s.provider.VerifyDeposit(reference)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, ErrPaymentNotConfirmed
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, models.PaymentStatusPending).
			Updates(map[string]interface{}{
				"status":       models.PaymentStatusCompleted,
				"completed_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("error completing payment: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Confirmed concurrently; nothing left to do
			return nil
		}

		description := fmt.Sprintf("Wallet deposit via %s (%s)", payment.Provider, payment.Reference)
		_, err := s.wallets.CreditWithTx(tx, payment.UserID, amount,
			models.TransactionTypeDeposit, nil, nil, description,
			models.JSON{"payment_reference": payment.Reference})
		return err
	})
	if err != nil {
		return nil, err
	}

	payment.Status = models.PaymentStatusCompleted
	return &payment, nil
}
