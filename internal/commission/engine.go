package commission

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/errors"
)

// Breakdown is the split of one payment. Agent + Operator + Company == Total.
type Breakdown struct {
	Agent    decimal.Decimal
	Operator decimal.Decimal
	Company  decimal.Decimal
	Total    decimal.Decimal
}

// Split divides amount between agent, operator and company.
//
// The agent and operator shares are rounded half away from zero to whole
// cents; the company share is the exact remainder, so the three shares always
// sum to amount.
func Split(amount decimal.Decimal, hasAgent, hasOperator bool) (Breakdown, error) {
	if err := validateAmount(amount); err != nil {
		return Breakdown{}, err
	}

	agent := decimal.Zero
	if hasAgent {
		agent = amount.Mul(agentRate).Round(moneyPlaces)
	}
	remaining := amount.Sub(agent)

	operator := decimal.Zero
	if hasOperator {
		operator = remaining.Mul(operatorRate).Round(moneyPlaces)
	}

	out := Breakdown{
		Agent:    agent,
		Operator: operator,
		Company:  remaining.Sub(operator),
		Total:    amount,
	}
	if err := out.check(); err != nil {
		return Breakdown{}, err
	}
	return out, nil
}

func validateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"amount": "must be greater than 0"})
	}
	if !amount.Equal(amount.Round(moneyPlaces)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"amount": "must have at most 2 decimal places"})
	}
	return nil
}

func (b Breakdown) check() error {
	for name, share := range map[string]decimal.Decimal{
		"agent":    b.Agent,
		"operator": b.Operator,
		"company":  b.Company,
	} {
		if share.IsNegative() || !share.Equal(share.Round(moneyPlaces)) {
			return pkgerrors.New(pkgerrors.CodeInvariantViolation, "commission share out of range").
				WithDetails(map[string]string{"share": name, "value": share.String()})
		}
	}
	if sum := b.Agent.Add(b.Operator).Add(b.Company); !sum.Equal(b.Total) {
		return pkgerrors.New(pkgerrors.CodeInvariantViolation, "commission shares do not sum to total").
			WithDetails(map[string]string{"sum": sum.String(), "total": b.Total.String()})
	}
	return nil
}
