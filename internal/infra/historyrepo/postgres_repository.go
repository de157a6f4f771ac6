package historyrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finsight/coverage-console/internal/domain/coverage"
)

// PostgresRepository implements coverage.HistoryRepository using pgx.
//
// Expected schema:
//
//	CREATE TABLE coverage_history (
//	    id          BIGSERIAL PRIMARY KEY,
//	    ts          TEXT,
//	    daily_pct   DOUBLE PRECISION NOT NULL DEFAULT 0,
//	    m5_pct      DOUBLE PRECISION NOT NULL DEFAULT 0,
//	    stale_daily DOUBLE PRECISION NOT NULL DEFAULT 0,
//	    stale_m5    DOUBLE PRECISION NOT NULL DEFAULT 0
//	);
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Append stores one coverage sample.
func (r *PostgresRepository) Append(ctx context.Context, entry coverage.HistoryEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO coverage_history (ts, daily_pct, m5_pct, stale_daily, stale_m5)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.TS, entry.DailyPct.Float(), entry.M5Pct.Float(), entry.StaleDaily.Float(), entry.StaleM5.Float())
	return err
}

// Recent returns up to limit samples in chronological order.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]coverage.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT ts, daily_pct, m5_pct, stale_daily, stale_m5
		FROM coverage_history
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]coverage.HistoryEntry, 0, limit)
	for rows.Next() {
		var (
			ts                                   *string
			dailyPct, m5Pct, staleDaily, staleM5 float64
		)
		if err := rows.Scan(&ts, &dailyPct, &m5Pct, &staleDaily, &staleM5); err != nil {
			return nil, err
		}
		out = append(out, coverage.HistoryEntry{
			TS:         ts,
			DailyPct:   numberPtr(dailyPct),
			M5Pct:      numberPtr(m5Pct),
			StaleDaily: numberPtr(staleDaily),
			StaleM5:    numberPtr(staleM5),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest-first from the query, chronological for the sparkline.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func numberPtr(v float64) *coverage.Number {
	n := coverage.Number(v)
	return &n
}

var _ coverage.HistoryRepository = (*PostgresRepository)(nil)
