package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	cbigquery "cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pkgbigquery "github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/bigquery"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/db/models"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/enums"
)

func TestNewCommissionWriterValidation(t *testing.T) {
	if _, err := NewCommissionWriter(nil, Config{CommissionTable: "commission_facts"}); err == nil {
		t.Fatal("expected error when client missing")
	}
	if _, err := NewCommissionWriter(&pkgbigquery.Client{}, Config{CommissionTable: " "}); err == nil {
		t.Fatal("expected error when table missing")
	}
}

func TestNewCommissionFactRow(t *testing.T) {
	agent := uuid.New()
	commission := sampleCommission(&agent)

	row, err := NewCommissionFactRow(commission)
	if err != nil {
		t.Fatalf("build row: %v", err)
	}
	if row.AgentAmountCents != 24691 || row.OperatorAmountCents != 9877 || row.CompanyAmountCents != 88889 || row.TotalAmountCents != 123457 {
		t.Fatalf("unexpected cents %+v", row)
	}
	if row.AgentID == nil || *row.AgentID != agent.String() {
		t.Fatalf("unexpected agent id %v", row.AgentID)
	}
	if row.OperatorID != nil {
		t.Fatal("operator id should be null")
	}
	if row.Status != "pending" {
		t.Fatalf("unexpected status %s", row.Status)
	}

	var shares map[string]string
	if err := json.Unmarshal([]byte(row.Payload.JSONVal), &shares); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if shares["company"] != "888.89" {
		t.Fatalf("unexpected payload %v", shares)
	}
}

func TestWriterRetriesOnTransientError(t *testing.T) {
	writer, fake := newWriterWithFakeInserter(t)
	fake.responses = []error{
		&googleapi.Error{Code: http.StatusServiceUnavailable},
		nil,
	}

	if err := writer.RecordCommission(context.Background(), sampleCommission(nil)); err != nil {
		t.Fatalf("unexpected error writing row: %v", err)
	}
	if len(fake.calls) != 2 {
		t.Fatalf("expected two insert attempts, got %d", len(fake.calls))
	}
	if fake.calls[1].table != "commission_facts" {
		t.Fatalf("unexpected table %s", fake.calls[1].table)
	}
}

func TestWriterStopsOnPermanentError(t *testing.T) {
	writer, fake := newWriterWithFakeInserter(t)
	fake.responses = []error{&googleapi.Error{Code: http.StatusBadRequest}}

	if err := writer.RecordCommission(context.Background(), sampleCommission(nil)); err == nil {
		t.Fatal("expected error")
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected single attempt, got %d", len(fake.calls))
	}
}

func TestWriterGivesUpAfterMaxAttempts(t *testing.T) {
	writer, fake := newWriterWithFakeInserter(t)
	unavailable := status.Error(codes.Unavailable, "try later")
	fake.responses = []error{unavailable, unavailable, unavailable, unavailable}

	if err := writer.RecordCommission(context.Background(), sampleCommission(nil)); err == nil {
		t.Fatal("expected error")
	}
	if len(fake.calls) != defaultMaxAttempts {
		t.Fatalf("expected %d attempts, got %d", defaultMaxAttempts, len(fake.calls))
	}
}

func TestIsRetryableBigQueryError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"http 429", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"http 404", &googleapi.Error{Code: http.StatusNotFound}, false},
		{"grpc deadline", status.Error(codes.DeadlineExceeded, "slow"), true},
		{"grpc invalid", status.Error(codes.InvalidArgument, "bad"), false},
		{"multi retryable", cbigquery.MultiError{&googleapi.Error{Code: http.StatusBadGateway}}, true},
		{"multi mixed", cbigquery.MultiError{&googleapi.Error{Code: http.StatusBadGateway}, errors.New("schema")}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isRetryableBigQueryError(tc.err); got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

type insertCall struct {
	table    string
	rowCount int
}

type fakeInserter struct {
	responses []error
	calls     []insertCall
	index     int
}

func (f *fakeInserter) InsertRows(_ context.Context, table string, rows []any) error {
	f.calls = append(f.calls, insertCall{table: table, rowCount: len(rows)})
	var err error
	if f.index < len(f.responses) {
		err = f.responses[f.index]
	}
	f.index++
	return err
}

func newWriterWithFakeInserter(t *testing.T) (*CommissionWriter, *fakeInserter) {
	t.Helper()
	writer, err := NewCommissionWriter(&pkgbigquery.Client{}, Config{
		CommissionTable: "commission_facts",
		RetryPolicy:     RetryPolicy{InitialBackoff: time.Millisecond, MaximumBackoff: 2 * time.Millisecond},
	})
	if err != nil {
		t.Fatalf("construct writer: %v", err)
	}
	fake := &fakeInserter{}
	writer.client = fake
	return writer, fake
}

func sampleCommission(agent *uuid.UUID) *models.Commission {
	return &models.Commission{
		ID:             uuid.New(),
		PaymentID:      uuid.New(),
		ShopID:         uuid.New(),
		AgentID:        agent,
		AgentAmount:    decimal.RequireFromString("246.91"),
		OperatorAmount: decimal.RequireFromString("98.77"),
		CompanyAmount:  decimal.RequireFromString("888.89"),
		TotalAmount:    decimal.RequireFromString("1234.57"),
		CurrencyCode:   "INR",
		Status:         enums.CommissionStatusPending,
		CreatedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}
