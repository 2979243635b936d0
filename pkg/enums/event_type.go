package enums

// EventType names the domain events exchanged over Pub/Sub.
type EventType string

const (
	EventPaymentCompleted EventType = "payment.completed"
	EventPaymentRefunded  EventType = "payment.refunded"
)

// String implements fmt.Stringer.
func (e EventType) String() string {
	return string(e)
}
