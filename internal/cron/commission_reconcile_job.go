package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/internal/commission"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/db/models"
	pkgerrors "github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/errors"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/logger"
)

const (
	defaultReconcileBatch    = 200
	defaultReconcileLookback = 7 * 24 * time.Hour
)

type paymentBacklog interface {
	ListUncommissionedPayments(ctx context.Context, since time.Time, limit int) ([]models.Payment, error)
}

type paymentRecorder interface {
	RecordPayment(ctx context.Context, record commission.PaymentRecord) (*models.Commission, error)
}

// CommissionReconcileJobParams configure the commission reconcile job.
type CommissionReconcileJobParams struct {
	Logger    *logger.Logger
	Payments  paymentBacklog
	Recorder  paymentRecorder
	BatchSize int
	Lookback  time.Duration
}

// NewCommissionReconcileJob books commissions for completed payments whose
// event never arrived.
func NewCommissionReconcileJob(params CommissionReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Payments == nil {
		return nil, errors.New("payment backlog required")
	}
	if params.Recorder == nil {
		return nil, errors.New("commission recorder required")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultReconcileBatch
	}
	lookback := params.Lookback
	if lookback <= 0 {
		lookback = defaultReconcileLookback
	}
	return &commissionReconcileJob{
		logg:     params.Logger,
		payments: params.Payments,
		recorder: params.Recorder,
		batch:    batch,
		lookback: lookback,
		now:      time.Now,
	}, nil
}

type commissionReconcileJob struct {
	logg     *logger.Logger
	payments paymentBacklog
	recorder paymentRecorder
	batch    int
	lookback time.Duration
	now      func() time.Time
}

func (j *commissionReconcileJob) Name() string { return "commission-reconcile" }

func (j *commissionReconcileJob) Run(ctx context.Context) error {
	since := j.now().UTC().Add(-j.lookback)
	payments, err := j.payments.ListUncommissionedPayments(ctx, since, j.batch)
	if err != nil {
		return fmt.Errorf("list uncommissioned payments: %w", err)
	}

	var (
		errs     error
		recorded int
		skipped  int
	)
	for _, payment := range payments {
		payCtx := j.logg.WithPaymentID(ctx, payment.ID.String())
		_, err := j.recorder.RecordPayment(payCtx, commission.RecordFromPayment(payment))
		switch {
		case err == nil:
			recorded++
		case pkgerrors.IsCode(err, pkgerrors.CodeConflict):
			skipped++
		case !pkgerrors.IsRetryable(err):
			skipped++
			j.logg.Warn(j.logg.WithField(payCtx, "error", err.Error()), "payment cannot be commissioned")
		default:
			errs = multierr.Append(errs, fmt.Errorf("payment %s: %w", payment.ID, err))
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"since":    since,
		"found":    len(payments),
		"recorded": recorded,
		"skipped":  skipped,
		"failed":   len(multierr.Errors(errs)),
	})
	j.logg.Info(logCtx, "commission reconcile complete")
	return errs
}
