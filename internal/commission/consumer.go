package commission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/db/models"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/enums"
	pkgerrors "github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/errors"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/events"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/logger"
)

const paymentsConsumerName = "commission"

type paymentRecorder interface {
	RecordPayment(ctx context.Context, record PaymentRecord) (*models.Commission, error)
}

type idempotencyGuard interface {
	Claim(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	Release(ctx context.Context, consumer string, eventID uuid.UUID) error
}

// Consumer books commissions for payment.completed events received over Pub/Sub.
type Consumer struct {
	subscription *gcppubsub.Subscriber
	recorder     paymentRecorder
	guard        idempotencyGuard
	decoders     *events.DecoderRegistry
	logg         *logger.Logger
}

// NewConsumer wires the payments subscription to the commission service.
func NewConsumer(subscription *gcppubsub.Subscriber, recorder paymentRecorder, guard idempotencyGuard, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, errors.New("payments subscription is required")
	}
	if recorder == nil {
		return nil, errors.New("payment recorder is required")
	}
	if guard == nil {
		return nil, errors.New("idempotency manager is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		subscription: subscription,
		recorder:     recorder,
		guard:        guard,
		decoders:     events.NewPaymentDecoders(),
		logg:         logg,
	}, nil
}

type processResult struct {
	nack bool
}

// Run receives payment messages until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return c.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if c.process(innerCtx, msg).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (c *Consumer) process(ctx context.Context, msg *gcppubsub.Message) processResult {
	fields := map[string]any{"message_id": msg.ID}
	logCtx := c.logg.WithFields(ctx, fields)

	envelope, err := c.buildEnvelope(msg)
	if err != nil {
		fields["error"] = err.Error()
		c.logg.Warn(c.logg.WithFields(ctx, fields), "invalid payment envelope")
		return processResult{}
	}
	fields["event_id"] = envelope.EventID
	fields["event_type"] = envelope.EventType.String()
	fields["occurred_at"] = envelope.OccurredAt.Format(time.RFC3339Nano)
	logCtx = c.logg.WithFields(ctx, fields)

	if envelope.EventType != enums.EventPaymentCompleted {
		c.logg.Debug(logCtx, "event ignored")
		return processResult{}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil || eventID == uuid.Nil {
		c.logg.Warn(logCtx, "invalid event id")
		return processResult{}
	}

	decoded, err := c.decoders.Decode(envelope.EventType, envelope.Version, envelope.Data)
	if err != nil {
		c.logg.Error(logCtx, "decode payment payload", err)
		return processResult{}
	}
	event, ok := decoded.(*events.PaymentCompletedEvent)
	if !ok {
		c.logg.Warn(logCtx, "unexpected payment payload")
		return processResult{}
	}
	logCtx = c.logg.WithPaymentID(logCtx, event.PaymentID.String())

	already, err := c.guard.Claim(logCtx, paymentsConsumerName, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{}
	}

	_, err = c.recorder.RecordPayment(logCtx, recordFromEvent(event))
	switch {
	case err == nil:
		c.logg.Info(logCtx, "payment event handled")
		return processResult{}
	case pkgerrors.IsCode(err, pkgerrors.CodeConflict):
		c.logg.Info(logCtx, "commission already recorded")
		return processResult{}
	case !pkgerrors.IsRetryable(err):
		c.logg.Error(logCtx, "payment event rejected", err)
		return processResult{}
	default:
		c.logg.Error(logCtx, "record payment failed", err)
		if relErr := c.guard.Release(logCtx, paymentsConsumerName, eventID); relErr != nil {
			c.logg.Error(logCtx, "release idempotency key", relErr)
		}
		return processResult{nack: true}
	}
}

func (c *Consumer) buildEnvelope(msg *gcppubsub.Message) (*events.PayloadEnvelope, error) {
	var stored events.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &stored); err != nil {
		return nil, fmt.Errorf("decode payload envelope: %w", err)
	}

	if attr := strings.TrimSpace(msg.Attributes[events.AttrEventType]); attr != "" {
		stored.EventType = enums.EventType(attr)
	}
	if stored.EventType == "" {
		return nil, errors.New("event_type missing")
	}

	stored.EventID = strings.TrimSpace(stored.EventID)
	if stored.EventID == "" {
		stored.EventID = strings.TrimSpace(msg.Attributes[events.AttrEventID])
	}
	if stored.EventID == "" {
		return nil, errors.New("event_id missing")
	}

	if stored.OccurredAt.IsZero() {
		if raw := strings.TrimSpace(msg.Attributes[events.AttrOccurredAt]); raw != "" {
			if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
				stored.OccurredAt = parsed
			}
		}
	}
	stored.OccurredAt = stored.OccurredAt.UTC()
	if stored.Version == 0 {
		stored.Version = 1
	}
	return &stored, nil
}

func recordFromEvent(event *events.PaymentCompletedEvent) PaymentRecord {
	return PaymentRecord{
		PaymentID:    event.PaymentID,
		ShopID:       event.ShopID,
		AgentID:      event.AgentID,
		OperatorID:   event.OperatorID,
		Amount:       event.Amount,
		CurrencyCode: event.CurrencyCode,
	}
}
