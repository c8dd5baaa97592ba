package sms

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datamartgh/backend/internal/models"
)

type recordingSender struct {
	recipient string
	message   string
	senderID  string
	result    SendResult
}

func (s *recordingSender) Send(recipient, message, senderID string) SendResult {
	s.recipient = recipient
	s.message = message
	s.senderID = senderID
	return s.result
}

func TestNotifyOrderCompleted(t *testing.T) {
	sender := &recordingSender{result: SendResult{Attempted: true, Success: true}}
	notifier := NewNotifier(sender)

	user := &models.User{PhoneNumber: "0241234567"}
	order := &models.Order{
		Reference:       "1234567890",
		BundleType:      models.BundleTypeMTNUp2U,
		Capacity:        5,
		RecipientNumber: "0551112222",
	}

	result := notifier.NotifyOrder(user, order, KindCompleted, "DataMart")
	assert.True(t, result.Success)
	assert.Equal(t, "0241234567", sender.recipient, "the buyer is notified, not the bundle recipient")
	assert.Equal(t, "DataMart", sender.senderID)
	assert.Contains(t, sender.message, "5GB")
	assert.Contains(t, sender.message, "MTN")
	assert.Contains(t, sender.message, "1234567890")
}

func TestNotifyOrderRefundMentionsAmount(t *testing.T) {
	sender := &recordingSender{result: SendResult{Attempted: true, Success: true}}
	notifier := NewNotifier(sender)

	user := &models.User{PhoneNumber: "0241234567"}
	order := &models.Order{Reference: "TELECEL-ABC12345", BundleType: models.BundleTypeTelecel, Price: 25}

	notifier.NotifyOrder(user, order, KindRefunded, "DataMart")
	assert.Contains(t, sender.message, "25.00")
	assert.Contains(t, sender.message, "refunded")
}

func TestNotifyOrderAfAWording(t *testing.T) {
	sender := &recordingSender{result: SendResult{Attempted: true, Success: true}}
	notifier := NewNotifier(sender)

	user := &models.User{PhoneNumber: "0241234567"}
	order := &models.Order{Reference: "AFA-XYZ11111", BundleType: models.BundleTypeAfA, Price: 8}

	notifier.NotifyOrder(user, order, KindCompleted, "DataMart")
	assert.Contains(t, sender.message, "AfA registration")

	notifier.NotifyOrder(user, order, KindRefunded, "DataMart")
	assert.Contains(t, sender.message, "cancelled")
}

func TestNotifyOrderWithoutPhoneNumber(t *testing.T) {
	sender := &recordingSender{}
	notifier := NewNotifier(sender)

	user := &models.User{}
	order := &models.Order{Reference: "X", BundleType: models.BundleTypeTelecel}

	result := notifier.NotifyOrder(user, order, KindCompleted, "DataMart")
	assert.False(t, result.Attempted)
	assert.Empty(t, sender.recipient, "no send is attempted without a phone number")
}
