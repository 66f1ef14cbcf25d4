package payments

import "time"

// StatusSuccess is the only status a payment ever carries; rows are
// recorded after the fact, there is no state machine.
const StatusSuccess = "SUCCESS"

// Payment is a single recorded monetary event. Amounts are integer minor
// units (cents) to avoid floating-point rounding error.
type Payment struct {
	ID          int64     `json:"id"`
	Reference   string    `json:"reference"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewPayment is a validated create request, ready for insertion.
type NewPayment struct {
	Reference   string
	AmountCents int64
	Currency    string
}

// SummaryRow is the trimmed shape used in the recent-payments series.
type SummaryRow struct {
	ID          int64     `json:"id"`
	Reference   string    `json:"reference"`
	AmountCents int64     `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary aggregates the whole table plus the most recent rows. Last7
// holds between 0 and 7 entries in descending id order.
type Summary struct {
	Count    int64        `json:"count"`
	SumCents int64        `json:"sum_cents"`
	Last7    []SummaryRow `json:"last7"`
}
