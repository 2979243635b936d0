package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/internal/commission"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/db/models"
	pkgerrors "github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/errors"
)

type stubBacklog struct {
	payments  []models.Payment
	err       error
	lastSince time.Time
	lastLimit int
}

func (s *stubBacklog) ListUncommissionedPayments(_ context.Context, since time.Time, limit int) ([]models.Payment, error) {
	s.lastSince = since
	s.lastLimit = limit
	return s.payments, s.err
}

type scriptedRecorder struct {
	results map[uuid.UUID]error
	seen    []commission.PaymentRecord
}

func (s *scriptedRecorder) RecordPayment(_ context.Context, record commission.PaymentRecord) (*models.Commission, error) {
	s.seen = append(s.seen, record)
	if err := s.results[record.PaymentID]; err != nil {
		return nil, err
	}
	return &models.Commission{ID: uuid.New(), PaymentID: record.PaymentID}, nil
}

func payment(amount string) models.Payment {
	return models.Payment{ID: uuid.New(), ShopID: uuid.New(), Amount: decimal.RequireFromString(amount), CurrencyCode: "INR"}
}

func newReconcileJob(t *testing.T, backlog *stubBacklog, recorder *scriptedRecorder) *commissionReconcileJob {
	t.Helper()
	job, err := NewCommissionReconcileJob(CommissionReconcileJobParams{
		Logger:    testLogger(),
		Payments:  backlog,
		Recorder:  recorder,
		BatchSize: 50,
		Lookback:  48 * time.Hour,
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	typed := job.(*commissionReconcileJob)
	typed.now = func() time.Time { return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) }
	return typed
}

func TestCommissionReconcileJobRecordsBacklog(t *testing.T) {
	backlog := &stubBacklog{payments: []models.Payment{payment("100.00"), payment("250.50")}}
	recorder := &scriptedRecorder{}
	job := newReconcileJob(t, backlog, recorder)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(recorder.seen) != 2 {
		t.Fatalf("expected two records, got %d", len(recorder.seen))
	}
	if recorder.seen[1].PaymentID != backlog.payments[1].ID || !recorder.seen[1].Amount.Equal(decimal.RequireFromString("250.50")) {
		t.Fatalf("unexpected record %+v", recorder.seen[1])
	}
	if !backlog.lastSince.Equal(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected lookback start %v", backlog.lastSince)
	}
	if backlog.lastLimit != 50 {
		t.Fatalf("unexpected batch size %d", backlog.lastLimit)
	}
}

func TestCommissionReconcileJobCombinesTransientFailures(t *testing.T) {
	conflict := payment("100.00")
	invalid := payment("0.00")
	failA := payment("10.00")
	failB := payment("20.00")
	ok := payment("30.00")
	backlog := &stubBacklog{payments: []models.Payment{conflict, invalid, failA, failB, ok}}
	recorder := &scriptedRecorder{results: map[uuid.UUID]error{
		conflict.ID: pkgerrors.New(pkgerrors.CodeConflict, "commission already recorded for payment"),
		invalid.ID:  pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive"),
		failA.ID:    pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("timeout"), "store commission"),
		failB.ID:    errors.New("connection reset"),
	}}
	job := newReconcileJob(t, backlog, recorder)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected combined error")
	}
	if got := len(multierr.Errors(err)); got != 2 {
		t.Fatalf("expected two failures, got %d: %v", got, err)
	}
	if len(recorder.seen) != 5 {
		t.Fatalf("every payment should be attempted, got %d", len(recorder.seen))
	}
}

func TestCommissionReconcileJobListError(t *testing.T) {
	job := newReconcileJob(t, &stubBacklog{err: errors.New("db down")}, &scriptedRecorder{})
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
