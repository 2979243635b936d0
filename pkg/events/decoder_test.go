package events

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/enums"
)

func TestPaymentDecodersCompleted(t *testing.T) {
	reg := NewPaymentDecoders()
	paymentID := uuid.New()
	agentID := uuid.New()

	payload := json.RawMessage(`{"payment_id":"` + paymentID.String() + `","shop_id":"` + uuid.NewString() +
		`","agent_id":"` + agentID.String() + `","amount":"1000.00","currency_code":"INR"}`)

	out, err := reg.Decode(enums.EventPaymentCompleted, 1, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	evt, ok := out.(*PaymentCompletedEvent)
	if !ok {
		t.Fatalf("expected *PaymentCompletedEvent, got %T", out)
	}
	if evt.PaymentID != paymentID {
		t.Fatalf("payment id mismatch")
	}
	if evt.AgentID == nil || *evt.AgentID != agentID {
		t.Fatalf("agent id mismatch")
	}
	if evt.OperatorID != nil {
		t.Fatalf("expected no operator, got %v", evt.OperatorID)
	}
	if !evt.Amount.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("unexpected amount %s", evt.Amount)
	}
}

func TestDecoderRegistryUnknownVersion(t *testing.T) {
	reg := NewPaymentDecoders()
	if _, err := reg.Decode(enums.EventPaymentCompleted, 2, json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected error for unregistered version")
	}
}

func TestDecoderRegistryMalformedPayload(t *testing.T) {
	reg := NewPaymentDecoders()
	if _, err := reg.Decode(enums.EventPaymentCompleted, 1, json.RawMessage(`{"amount":`)); err == nil {
		t.Fatal("expected decode error")
	}
}
