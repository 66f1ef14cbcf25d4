package payments

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	List(ctx context.Context, q string, limit int) ([]Payment, error)
	Create(ctx context.Context, np NewPayment) (Payment, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Summarize(ctx context.Context) (Summary, error)
	Ping(ctx context.Context) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const paymentColumns = "id, reference, amount_cents, currency, status, created_at"

// List returns payments ordered by id descending, optionally restricted to
// rows whose reference contains q (case-insensitive). Every user value is
// bound as a parameter; the limit is the single documented exception,
// embedded as text only because ClampLimit has already forced it into
// [MinLimit, MaxLimit].
func (r *PostgresRepository) List(ctx context.Context, q string, limit int) ([]Payment, error) {
	sql := "SELECT " + paymentColumns + " FROM payments"
	var args []any
	if q != "" {
		sql += " WHERE reference ILIKE $1"
		args = append(args, "%"+q+"%")
	}
	sql += " ORDER BY id DESC LIMIT " + strconv.Itoa(limit)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("select payments: %w", err)
	}
	defer rows.Close()

	out := make([]Payment, 0, limit)
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.Reference, &p.AmountCents, &p.Currency, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return out, nil
}

// Create inserts a validated payment and returns the full stored row,
// including the generated id and created_at, in one round trip.
func (r *PostgresRepository) Create(ctx context.Context, np NewPayment) (Payment, error) {
	var p Payment
	err := r.pool.QueryRow(ctx,
		`INSERT INTO payments(reference, amount_cents, currency, status)
		 VALUES($1, $2, $3, $4)
		 RETURNING `+paymentColumns,
		np.Reference, np.AmountCents, np.Currency, StatusSuccess,
	).Scan(&p.ID, &p.Reference, &p.AmountCents, &p.Currency, &p.Status, &p.CreatedAt)
	if err != nil {
		return Payment{}, fmt.Errorf("insert payment: %w", err)
	}
	return p, nil
}

// Delete removes the row matching id and reports how many rows were
// actually removed (0 or 1). A missing id is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id=$1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete payment: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Summarize runs the two aggregate reads. They are deliberately
// independent queries, not a transaction: a row inserted between them can
// skew count against last7 by one, which is an accepted staleness window
// for a dashboard. The sum is cast to bigint in SQL and scanned into an
// int64 so minor-unit totals past 2^31 stay exact.
func (r *PostgresRepository) Summarize(ctx context.Context) (Summary, error) {
	s := Summary{Last7: []SummaryRow{}}

	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(amount_cents), 0)::bigint FROM payments`,
	).Scan(&s.Count, &s.SumCents)
	if err != nil {
		return Summary{}, fmt.Errorf("aggregate payments: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, reference, amount_cents, created_at FROM payments ORDER BY id DESC LIMIT 7`)
	if err != nil {
		return Summary{}, fmt.Errorf("select recent payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row SummaryRow
		if err := rows.Scan(&row.ID, &row.Reference, &row.AmountCents, &row.CreatedAt); err != nil {
			return Summary{}, fmt.Errorf("scan recent payment: %w", err)
		}
		s.Last7 = append(s.Last7, row)
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("rows: %w", err)
	}

	return s, nil
}

// Ping issues a trivial query to verify the store is reachable. Used by
// the health endpoint only.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, "SELECT 1"); err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	return nil
}
