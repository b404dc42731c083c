// Package notification informs provider operators about subscription events
// through in-app notifications and, where a contact address is configured,
// mail. Dispatch is best effort: every failure is logged and absorbed so a
// broken relay never blocks provisioning.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/OpenDataspace/portal/internal/marketplace/service"
)

// Dispatcher creates in-app notifications and sends subscription mails.
type Dispatcher struct {
	db   *gorm.DB
	mail MailSender
}

func NewDispatcher(db *gorm.DB, mail MailSender) *Dispatcher {
	return &Dispatcher{db: db, mail: mail}
}

// NotifySubscriptionCreated implements service.SubscriptionNotifier.
func (d *Dispatcher) NotifySubscriptionCreated(ctx context.Context, event service.SubscriptionEvent) {
	if len(event.RecipientIDs) > 0 {
		if err := d.createNotifications(ctx, event); err != nil {
			slog.WarnContext(ctx, "failed to create subscription notifications",
				"subscriptionID", event.SubscriptionID,
				"recipients", len(event.RecipientIDs),
				"error", err)
		}
	}

	if event.ContactEmail != nil && d.mail != nil {
		subject := fmt.Sprintf("New subscription request for %s", event.OfferName)
		body := fmt.Sprintf("Company %s requested a subscription to %s.\nSubscription id: %s\n",
			event.CompanyName, event.OfferName, event.SubscriptionID)
		if err := d.mail.Send(ctx, []string{*event.ContactEmail}, subject, body); err != nil {
			slog.WarnContext(ctx, "failed to send subscription mail",
				"subscriptionID", event.SubscriptionID,
				"error", err)
		}
	}
}

func (d *Dispatcher) createNotifications(ctx context.Context, event service.SubscriptionEvent) error {
	content, err := json.Marshal(map[string]string{
		"offerId":        event.OfferID.String(),
		"offerName":      event.OfferName,
		"companyName":    event.CompanyName,
		"subscriptionId": event.SubscriptionID.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification content: %w", err)
	}

	notifications := make([]Notification, len(event.RecipientIDs))
	for i, receiverID := range event.RecipientIDs {
		notifications[i] = Notification{
			ReceiverUserID:   receiverID,
			NotificationType: TypeSubscriptionRequest,
			Content:          string(content),
		}
	}
	if err := d.db.WithContext(ctx).Create(&notifications).Error; err != nil {
		return fmt.Errorf("failed to insert notifications: %w", err)
	}
	return nil
}
