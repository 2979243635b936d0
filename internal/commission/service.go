package commission

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/db"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/db/models"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/enums"
	pkgerrors "github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/errors"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/logger"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/metrics"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/pagination"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/validate"
)

const defaultCurrency = "INR"

// PaymentRecord is a completed payment awaiting its commission split.
type PaymentRecord struct {
	PaymentID    uuid.UUID       `json:"payment_id" validate:"required"`
	ShopID       uuid.UUID       `json:"shop_id" validate:"required"`
	AgentID      *uuid.UUID      `json:"agent_id"`
	OperatorID   *uuid.UUID      `json:"operator_id"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code" validate:"omitempty,len=3"`
}

// RecordFromPayment projects a stored payment into a PaymentRecord.
func RecordFromPayment(p models.Payment) PaymentRecord {
	return PaymentRecord{
		PaymentID:    p.ID,
		ShopID:       p.ShopID,
		AgentID:      p.AgentID,
		OperatorID:   p.OperatorID,
		Amount:       p.Amount,
		CurrencyCode: p.CurrencyCode,
	}
}

// Page is one page of commissions plus the cursor for the next one.
type Page struct {
	Items      []models.Commission
	NextCursor string
}

type factRecorder interface {
	RecordCommission(ctx context.Context, commission *models.Commission) error
}

type outcomeRecorder interface {
	Observe(outcome string)
	AddShares(agent, operator, company decimal.Decimal)
}

// ServiceParams groups dependencies for the commission service.
type ServiceParams struct {
	Repo     Repository
	Facts    factRecorder
	Metrics  outcomeRecorder
	Logger   *logger.Logger
	Currency string
}

// Service books commissions for completed payments and settles them.
type Service struct {
	repo     Repository
	facts    factRecorder
	metrics  outcomeRecorder
	logg     *logger.Logger
	currency string
	now      func() time.Time
}

// NewService builds a commission service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("commission repository is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	return &Service{
		repo:     params.Repo,
		facts:    params.Facts,
		metrics:  params.Metrics,
		logg:     params.Logger,
		currency: currency,
		now:      time.Now,
	}, nil
}

// RecordPayment splits a completed payment and stores the pending commission.
// A second commission for the same payment fails with CONFLICT.
func (s *Service) RecordPayment(ctx context.Context, record PaymentRecord) (*models.Commission, error) {
	if err := validate.Struct(record); err != nil {
		s.observe(metrics.OutcomeRejected)
		return nil, err
	}
	breakdown, err := Split(record.Amount, record.AgentID != nil, record.OperatorID != nil)
	if err != nil {
		s.observe(metrics.OutcomeRejected)
		return nil, err
	}

	currency := strings.ToUpper(record.CurrencyCode)
	if currency == "" {
		currency = s.currency
	}
	commission := &models.Commission{
		ID:             uuid.New(),
		PaymentID:      record.PaymentID,
		ShopID:         record.ShopID,
		AgentID:        record.AgentID,
		OperatorID:     record.OperatorID,
		AgentAmount:    breakdown.Agent,
		OperatorAmount: breakdown.Operator,
		CompanyAmount:  breakdown.Company,
		TotalAmount:    breakdown.Total,
		CurrencyCode:   currency,
		Status:         enums.CommissionStatusPending,
	}

	ctx = s.logg.WithPaymentID(ctx, record.PaymentID.String())
	if err := s.repo.Create(ctx, commission); err != nil {
		if db.IsUniqueViolation(err, "") {
			s.observe(metrics.OutcomeDuplicate)
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "commission already recorded for payment").
				WithDetails(map[string]string{"payment_id": record.PaymentID.String()})
		}
		s.observe(metrics.OutcomeFailed)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store commission")
	}

	s.observe(metrics.OutcomeRecorded)
	if s.metrics != nil {
		s.metrics.AddShares(breakdown.Agent, breakdown.Operator, breakdown.Company)
	}
	ctx = s.logg.WithCommissionID(ctx, commission.ID.String())
	s.logg.Info(ctx, "commission recorded")

	if s.facts != nil {
		if err := s.facts.RecordCommission(ctx, commission); err != nil {
			s.logg.Error(ctx, "commission fact export failed", err)
		}
	}
	return commission, nil
}

// MarkPaid settles a pending commission. Paid commissions are terminal.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) (*models.Commission, error) {
	ctx = s.logg.WithCommissionID(ctx, id.String())
	changed, err := s.repo.MarkPaid(ctx, id, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark commission paid")
	}

	commission, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "commission cannot be marked paid").
			WithDetails(map[string]string{"status": commission.Status.String()})
	}
	s.logg.Info(ctx, "commission marked paid")
	return commission, nil
}

// Get returns one commission or NOT_FOUND.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Commission, error) {
	commission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load commission")
	}
	if commission == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "commission not found")
	}
	return commission, nil
}

// ListByAgent pages through an agent's commissions, newest first.
func (s *Service) ListByAgent(ctx context.Context, agentID uuid.UUID, params pagination.Params) (*Page, error) {
	return s.list(ctx, ListQuery{AgentID: &agentID}, params)
}

// ListByOperator pages through an operator's commissions, newest first.
func (s *Service) ListByOperator(ctx context.Context, operatorID uuid.UUID, params pagination.Params) (*Page, error) {
	return s.list(ctx, ListQuery{OperatorID: &operatorID}, params)
}

func (s *Service) list(ctx context.Context, query ListQuery, params pagination.Params) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor").
			WithDetails(map[string]string{"cursor": "is invalid"})
	}
	query.Limit = params.Limit
	query.Cursor = cursor

	items, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list commissions")
	}
	return &Page{Items: items, NextCursor: pagination.Next(next)}, nil
}

func (s *Service) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.Observe(outcome)
	}
}
