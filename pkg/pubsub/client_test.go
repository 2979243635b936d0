package pubsub

import (
	"context"
	"testing"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/config"
)

func TestSubscriptionNamesSkipsBlank(t *testing.T) {
	if names := subscriptionNames(config.PubSubConfig{PaymentsSubscription: "  "}); len(names) != 0 {
		t.Fatalf("expected no names, got %v", names)
	}
	names := subscriptionNames(config.PubSubConfig{PaymentsSubscription: " payments-commission "})
	if len(names) != 1 || names[0] != "payments-commission" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestSubscriptionResourceName(t *testing.T) {
	c := &Client{projectID: "rupiya-prod"}
	if got := c.subscriptionResourceName("payments-commission"); got != "projects/rupiya-prod/subscriptions/payments-commission" {
		t.Fatalf("unexpected resource name %q", got)
	}
	full := "projects/other/subscriptions/abc"
	if got := c.subscriptionResourceName(full); got != full {
		t.Fatalf("expected full name to pass through, got %q", got)
	}
	if got := (&Client{}).subscriptionResourceName("abc"); got != "" {
		t.Fatalf("expected empty name without project, got %q", got)
	}
}

func TestNilClientHandles(t *testing.T) {
	var c *Client
	if c.Subscription("x") != nil {
		t.Fatal("expected nil subscriber from nil client")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close on nil client: %v", err)
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error on nil client")
	}
}
