package sms

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/datamartgh/backend/internal/models"
)

// TransitionKind selects the message wording for a notification
type TransitionKind string

const (
	KindCompleted TransitionKind = "completed"
	KindRefunded  TransitionKind = "refunded"
	KindFailed    TransitionKind = "failed"
)

// Sender is the outbound SMS capability the notifier depends on
type Sender interface {
	Send(recipient, message, senderID string) SendResult
}

// Notifier dispatches best-effort order notifications after a status
// transition has committed. Failures are logged and never propagated.
type Notifier struct {
	sender Sender
}

// NewNotifier creates a new notification dispatcher
func NewNotifier(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

// messageFor selects wording by bundle type and transition kind. AfA
// registrations carry their own cancellation wording because the product is
// a SIM registration, not a data delivery.
func messageFor(order *models.Order, kind TransitionKind) string {
	switch kind {
	case KindCompleted:
		if order.BundleType == models.BundleTypeAfA {
			return fmt.Sprintf("Your AfA registration %s has been completed. Thank you for choosing DataMart.", order.Reference)
		}
		return fmt.Sprintf("Your %.0fGB %s bundle for %s is ready. Order ref: %s.",
			order.Capacity, order.BundleType.Network(), order.RecipientNumber, order.Reference)
	case KindRefunded:
		if order.BundleType == models.BundleTypeAfA {
			return fmt.Sprintf("Your AfA registration %s has been cancelled and GHS %.2f returned to your wallet.", order.Reference, order.Price)
		}
		return fmt.Sprintf("Order %s could not be fulfilled. GHS %.2f has been refunded to your wallet.", order.Reference, order.Price)
	case KindFailed:
		return fmt.Sprintf("Order %s failed: %s. Contact support if you were charged.", order.Reference, order.FailureReason)
	}
	return ""
}

// NotifyOrder sends the order notification for a transition kind to the
// buyer's phone number. Any failure is logged only.
func (n *Notifier) NotifyOrder(user *models.User, order *models.Order, kind TransitionKind, senderID string) SendResult {
	if user.PhoneNumber == "" {
		return SendResult{Error: "user has no phone number"}
	}

	message := messageFor(order, kind)
	if message == "" {
		return SendResult{}
	}

	result := n.sender.Send(user.PhoneNumber, message, senderID)
	if !result.Success {
		logrus.WithFields(logrus.Fields{
			"order":     order.Reference,
			"kind":      kind,
			"recipient": user.PhoneNumber,
		}).WithField("error", result.Error).Warn("order notification failed")
	}
	return result
}
