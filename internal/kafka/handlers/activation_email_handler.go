package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	confluentKafka "github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"social-go/internal/config"
	"social-go/internal/email"
	"social-go/internal/kafka"
	"social-go/internal/services"
)

// ActivationEmailHandler consumes registration events and sends the
// confirmation email carrying the activation link.
type ActivationEmailHandler struct {
	sender   email.Sender
	emailCfg config.EmailConfig
}

// NewActivationEmailHandler creates a new ActivationEmailHandler.
func NewActivationEmailHandler(sender email.Sender, emailCfg config.EmailConfig) *ActivationEmailHandler {
	return &ActivationEmailHandler{sender: sender, emailCfg: emailCfg}
}

// Handle satisfies kafka.MessageHandler. Malformed events are dropped
// with their offset committed; delivery failures are returned so the
// event is retried.
func (h *ActivationEmailHandler) Handle(ctx context.Context, msg *confluentKafka.Message) error {
	var event services.ActivationEmailEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Printf("Error unmarshalling activation email event (offset %v): %v, value: %s",
			msg.TopicPartition.Offset, err, string(msg.Value))
		return nil // Commit offset for bad message
	}

	link := fmt.Sprintf("%s/%s", h.emailCfg.ConfirmBaseURL, event.Token)
	body := fmt.Sprintf(
		"Welcome!\n\nPlease confirm your registration by visiting the link below:\n\n%s\n\nIf you did not create this account, ignore this message.\n",
		link,
	)

	if err := h.sender.Send(event.Email, "Confirm your registration", body); err != nil {
		return fmt.Errorf("failed to send activation email to %s: %w", event.Email, err)
	}

	log.Printf("Activation email sent to %s (offset %v)", event.Email, msg.TopicPartition.Offset)
	return nil
}

// compile-time check that Handle matches the consumer's handler signature
var _ kafka.MessageHandler = (*ActivationEmailHandler)(nil).Handle
