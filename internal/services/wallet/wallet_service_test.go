package wallet

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/datamartgh/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.User{}, &models.Wallet{}, &models.Transaction{})
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	user := models.User{
		Email:        "kofi@example.com",
		Name:         "Kofi Mensah",
		PhoneNumber:  "0241234567",
		PasswordHash: "x",
		Role:         models.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func TestGetOrCreateWallet(t *testing.T) {
	db := setupTestDB(t)
	service := NewWalletService(db)
	user := createTestUser(t, db)

	wallet, err := service.GetOrCreateWallet(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, wallet.UserID)
	assert.Equal(t, models.CurrencyGHS, wallet.Currency)
	assert.Equal(t, 0.0, wallet.Balance)

	again, err := service.GetOrCreateWallet(user.ID)
	require.NoError(t, err)
	assert.Equal(t, wallet.ID, again.ID)
}

func TestCreditAndDebit(t *testing.T) {
	db := setupTestDB(t)
	service := NewWalletService(db)
	user := createTestUser(t, db)

	_, err := service.GetOrCreateWallet(user.ID)
	require.NoError(t, err)

	credit, err := service.Credit(user.ID, 100, models.TransactionTypeDeposit, nil, "test deposit", nil)
	require.NoError(t, err)
	assert.Equal(t, 100.0, credit.Amount)
	assert.Equal(t, 0.0, credit.BalanceBefore)
	assert.Equal(t, 100.0, credit.BalanceAfter)
	assert.Equal(t, "completed", credit.Status)

	debit, err := service.Debit(user.ID, 40, models.TransactionTypePurchase, nil, "test purchase", nil)
	require.NoError(t, err)
	assert.Equal(t, -40.0, debit.Amount)
	assert.Equal(t, 100.0, debit.BalanceBefore)
	assert.Equal(t, 60.0, debit.BalanceAfter)

	wallet, err := service.GetWallet(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 60.0, wallet.Balance)
}

func TestDebitInsufficientFunds(t *testing.T) {
	db := setupTestDB(t)
	service := NewWalletService(db)
	user := createTestUser(t, db)

	_, err := service.GetOrCreateWallet(user.ID)
	require.NoError(t, err)
	_, err = service.Credit(user.ID, 10, models.TransactionTypeDeposit, nil, "small deposit", nil)
	require.NoError(t, err)

	_, err = service.Debit(user.ID, 25, models.TransactionTypePurchase, nil, "too big", nil)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Balance untouched and no ledger entry written for the failed debit
	wallet, err := service.GetWallet(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, wallet.Balance)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCheckSufficient(t *testing.T) {
	db := setupTestDB(t)
	service := NewWalletService(db)
	user := createTestUser(t, db)

	_, err := service.GetOrCreateWallet(user.ID)
	require.NoError(t, err)
	_, err = service.Credit(user.ID, 30, models.TransactionTypeDeposit, nil, "deposit", nil)
	require.NoError(t, err)

	ok, err := service.CheckSufficient(user.ID, 30)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = service.CheckSufficient(user.ID, 30.01)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = service.CheckSufficient(uuid.New(), 1)
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestConcurrentDebitsCannotOverdraw(t *testing.T) {
	db := setupTestDB(t)
	service := NewWalletService(db)
	user := createTestUser(t, db)

	_, err := service.GetOrCreateWallet(user.ID)
	require.NoError(t, err)
	_, err = service.Credit(user.ID, 100, models.TransactionTypeDeposit, nil, "deposit", nil)
	require.NoError(t, err)

	// Two racing debits whose sum exceeds the balance: the conditional
	// update lets exactly one through.
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Debit(user.ID, 60, models.TransactionTypePurchase, nil, "racing spend", nil)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientFunds)
		}
	}
	assert.Equal(t, 1, succeeded)

	wallet, err := service.GetWallet(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, wallet.Balance)

	var debits int64
	require.NoError(t, db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", user.ID, models.TransactionTypePurchase).
		Count(&debits).Error)
	assert.Equal(t, int64(1), debits)
}

func TestDebitExactBalance(t *testing.T) {
	db := setupTestDB(t)
	service := NewWalletService(db)
	user := createTestUser(t, db)

	_, err := service.GetOrCreateWallet(user.ID)
	require.NoError(t, err)
	_, err = service.Credit(user.ID, 50, models.TransactionTypeDeposit, nil, "deposit", nil)
	require.NoError(t, err)

	debit, err := service.Debit(user.ID, 50, models.TransactionTypePurchase, nil, "all of it", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, debit.BalanceAfter)
}

func TestInvalidAmounts(t *testing.T) {
	db := setupTestDB(t)
	service := NewWalletService(db)
	user := createTestUser(t, db)

	_, err := service.GetOrCreateWallet(user.ID)
	require.NoError(t, err)

	_, err = service.Credit(user.ID, 0, models.TransactionTypeDeposit, nil, "zero", nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = service.Debit(user.ID, -5, models.TransactionTypePurchase, nil, "negative", nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestWalletNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := NewWalletService(db)

	_, err := service.GetWallet(uuid.New())
	assert.ErrorIs(t, err, ErrWalletNotFound)

	_, err = service.Debit(uuid.New(), 10, models.TransactionTypePurchase, nil, "no wallet", nil)
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestAdminAdjustmentsRecordActor(t *testing.T) {
	db := setupTestDB(t)
	service := NewWalletService(db)
	user := createTestUser(t, db)

	_, err := service.GetOrCreateWallet(user.ID)
	require.NoError(t, err)

	admin := Actor{ID: uuid.New(), Role: models.RoleWalletAdmin}

	credit, err := service.AdminCredit(user.ID, 200, admin, "manual top-up")
	require.NoError(t, err)
	require.NotNil(t, credit.ActorID)
	assert.Equal(t, admin.ID, *credit.ActorID)
	assert.Equal(t, models.RoleWalletAdmin, credit.ActorRole)
	assert.Equal(t, models.TransactionTypeAdminCredit, credit.Type)

	debit, err := service.AdminDebit(user.ID, 50, admin, "correction")
	require.NoError(t, err)
	require.NotNil(t, debit.ActorID)
	assert.Equal(t, admin.ID, *debit.ActorID)
	assert.Equal(t, models.TransactionTypeAdminDebit, debit.Type)
	assert.Equal(t, 150.0, debit.BalanceAfter)

	_, err = service.AdminDebit(user.ID, 1000, admin, "overdraw attempt")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestGetTransactionHistory(t *testing.T) {
	db := setupTestDB(t)
	service := NewWalletService(db)
	user := createTestUser(t, db)

	_, err := service.GetOrCreateWallet(user.ID)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := service.Credit(user.ID, 10, models.TransactionTypeDeposit, nil, "deposit", nil)
		require.NoError(t, err)
	}

	transactions, total, err := service.GetTransactionHistory(user.ID, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, transactions, 3)

	rest, _, err := service.GetTransactionHistory(user.ID, 2, 3)
	require.NoError(t, err)
	assert.Len(t, rest, 2)
}
