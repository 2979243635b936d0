package commission

import "github.com/shopspring/decimal"

// Split policy. The agent is paid first from the gross amount, the operator
// from what remains, and the company keeps the rest including any rounding
// remainder.
var (
	agentRate    = decimal.RequireFromString("0.20")
	operatorRate = decimal.RequireFromString("0.10")
)

// moneyPlaces is the number of decimal places every share is booked at.
const moneyPlaces int32 = 2
