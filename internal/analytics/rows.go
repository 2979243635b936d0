package analytics

import (
	"time"

	cbigquery "cloud.google.com/go/bigquery"
	"github.com/shopspring/decimal"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/db/models"
)

// CommissionFactRow mirrors the commission_facts BigQuery schema. Amounts are
// stored in minor units.
type CommissionFactRow struct {
	CommissionID        string             `bigquery:"commission_id"`
	PaymentID           string             `bigquery:"payment_id"`
	ShopID              string             `bigquery:"shop_id"`
	AgentID             *string            `bigquery:"agent_id"`
	OperatorID          *string            `bigquery:"operator_id"`
	CurrencyCode        string             `bigquery:"currency_code"`
	AgentAmountCents    int64              `bigquery:"agent_amount_cents"`
	OperatorAmountCents int64              `bigquery:"operator_amount_cents"`
	CompanyAmountCents  int64              `bigquery:"company_amount_cents"`
	TotalAmountCents    int64              `bigquery:"total_amount_cents"`
	Status              string             `bigquery:"status"`
	RecordedAt          time.Time          `bigquery:"recorded_at"`
	Payload             cbigquery.NullJSON `bigquery:"payload"`
}

type sharesPayload struct {
	Agent    string `json:"agent"`
	Operator string `json:"operator"`
	Company  string `json:"company"`
	Total    string `json:"total"`
}

// NewCommissionFactRow projects a stored commission into its fact row.
func NewCommissionFactRow(c *models.Commission) (CommissionFactRow, error) {
	payload, err := EncodeJSON(sharesPayload{
		Agent:    c.AgentAmount.StringFixed(2),
		Operator: c.OperatorAmount.StringFixed(2),
		Company:  c.CompanyAmount.StringFixed(2),
		Total:    c.TotalAmount.StringFixed(2),
	})
	if err != nil {
		return CommissionFactRow{}, err
	}

	recordedAt := c.CreatedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	row := CommissionFactRow{
		CommissionID:        c.ID.String(),
		PaymentID:           c.PaymentID.String(),
		ShopID:              c.ShopID.String(),
		CurrencyCode:        c.CurrencyCode,
		AgentAmountCents:    toCents(c.AgentAmount),
		OperatorAmountCents: toCents(c.OperatorAmount),
		CompanyAmountCents:  toCents(c.CompanyAmount),
		TotalAmountCents:    toCents(c.TotalAmount),
		Status:              c.Status.String(),
		RecordedAt:          recordedAt.UTC(),
		Payload:             payload,
	}
	if c.AgentID != nil {
		row.AgentID = ptrString(c.AgentID.String())
	}
	if c.OperatorID != nil {
		row.OperatorID = ptrString(c.OperatorID.String())
	}
	return row, nil
}

var hundred = decimal.NewFromInt(100)

func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

func ptrString(value string) *string {
	return &value
}
