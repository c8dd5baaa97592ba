package order

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/datamartgh/backend/internal/models"
	"github.com/datamartgh/backend/internal/utils"
)

// MaxBulkEntries bounds one bulk purchase request
const MaxBulkEntries = 100

// BulkEntry is one line of a bulk purchase request
type BulkEntry struct {
	RecipientNumber string  `json:"recipient"`
	Capacity        float64 `json:"capacity"`
}

// BulkEntryResult is the per-entry outcome reported back to the caller
type BulkEntryResult struct {
	RecipientNumber string  `json:"recipient"`
	Capacity        float64 `json:"capacity"`
	Success         bool    `json:"success"`
	OrderReference  string  `json:"orderReference,omitempty"`
	Price           float64 `json:"price,omitempty"`
	Reason          string  `json:"reason,omitempty"`
}

// BulkResult summarizes a bulk purchase
type BulkResult struct {
	BatchID       uuid.UUID         `json:"batchId"`
	Successful    int               `json:"successful"`
	Failed        int               `json:"failed"`
	TotalAmount   float64           `json:"totalAmount"`
	WalletBalance float64           `json:"walletBalance"`
	Entries       []BulkEntryResult `json:"entries"`
}

// BulkPlaceOrder fans a batch of entries through order creation under one
// aggregate wallet debit. Prices come from a pre-fetched catalog map for the
// batch's bundle type; malformed entries are skipped and itemized without
// aborting the batch, and the single debit covers only the entries that
// succeeded. Bulk orders never call the delivery gateway: they all stay
// pending for manual review.
func (s *OrderService) BulkPlaceOrder(userID uuid.UUID, role models.Role, bundleType models.BundleType, entries []BulkEntry) (*BulkResult, error) {
	if !models.ValidBundleType(bundleType) {
		return nil, &ValidationError{Field: "networkKey", Message: "unknown bundle type"}
	}
	if len(entries) == 0 {
		return nil, &ValidationError{Field: "orders", Message: "no entries supplied"}
	}
	if len(entries) > MaxBulkEntries {
		return nil, ErrBatchTooLarge
	}

	settings, err := s.currentSettings()
	if err != nil {
		return nil, fmt.Errorf("error loading settings: %w", err)
	}
	if !settings.NetworkAvailable(bundleType) {
		return nil, ErrOrderingClosed
	}

	prices, err := s.pricing.PriceMap(bundleType, role)
	if err != nil {
		return nil, err
	}

	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	batchID := uuid.New()
	results := make([]BulkEntryResult, 0, len(entries))
	var total float64
	var balance float64

	err = s.db.Transaction(func(tx *gorm.DB) error {
		successful := 0
		for _, entry := range entries {
			result := BulkEntryResult{
				RecipientNumber: entry.RecipientNumber,
				Capacity:        entry.Capacity,
			}

			price, priced := prices[entry.Capacity]
			switch {
			case !utils.ValidPhoneNumber(entry.RecipientNumber):
				result.Reason = "invalid phone number"
			case !priced:
				result.Reason = "no active bundle for capacity"
			default:
				placed, err := s.createOrderTx(tx, user.ID, bundleType, entry.Capacity, price,
					utils.NormalizePhoneNumber(entry.RecipientNumber),
					models.JSON{"batch_id": batchID.String()})
				if err != nil {
					return err
				}
				result.Success = true
				result.OrderReference = placed.Reference
				result.Price = price
				total += price
				successful++
			}
			results = append(results, result)
		}

		if successful == 0 {
			return &ValidationError{Field: "orders", Message: "no valid entries in batch"}
		}

		description := fmt.Sprintf("Bulk purchase of %d %s bundles (batch %s)", successful, bundleType, batchID)
		txn, err := s.wallets.DebitWithTx(tx, user.ID, total, models.TransactionTypePurchase, nil, nil,
			description, models.JSON{"batch_id": batchID.String()})
		if err != nil {
			return err
		}
		balance = txn.BalanceAfter
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary := &BulkResult{
		BatchID:       batchID,
		TotalAmount:   total,
		WalletBalance: balance,
		Entries:       results,
	}
	for _, r := range results {
		if r.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}
	return summary, nil
}
