package repository

import (
	"context"

	"candleforge/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/trace"
)

// PgxPool is the slice of pgxpool.Pool the bar archive needs.
type PgxPool interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// BarRepository archives fetched OHLCV bars. The archive is write-behind and
// best-effort; the live fetch path never reads from it.
type BarRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewBarRepository(pool PgxPool, tracer trace.Tracer) *BarRepository {
	return &BarRepository{pool: pool, tracer: tracer}
}

func (r *BarRepository) UpsertSeries(ctx context.Context, series *domain.Series) error {
	if series.Len() == 0 {
		return nil
	}

	_, span := r.tracer.Start(ctx, "bar-repo.upsert-series")
	defer span.End()

	batch := &pgx.Batch{}
	for i := 0; i < series.Len(); i++ {
		bar := series.Bar(i)
		batch.Queue(
			`INSERT INTO bars (symbol, timeframe, open_time, open, high, low, close, volume)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (symbol, timeframe, open_time) DO UPDATE SET
			     open = EXCLUDED.open,
			     high = EXCLUDED.high,
			     low = EXCLUDED.low,
			     close = EXCLUDED.close,
			     volume = EXCLUDED.volume`,
			bar.Symbol, string(bar.Timeframe), bar.OpenTime, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < series.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *BarRepository) ListBars(ctx context.Context, symbol string, timeframe domain.Timeframe, limit int) ([]domain.Bar, error) {
	_, span := r.tracer.Start(ctx, "bar-repo.list-bars")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT symbol, timeframe, open_time, open, high, low, close, volume
		 FROM bars
		 WHERE symbol = $1 AND timeframe = $2
		 ORDER BY open_time DESC
		 LIMIT $3`,
		symbol, string(timeframe), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []domain.Bar
	for rows.Next() {
		var b domain.Bar
		var tf string
		if err := rows.Scan(&b.Symbol, &tf, &b.OpenTime, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		b.Timeframe = domain.Timeframe(tf)
		bars = append(bars, b)
	}
	return bars, rows.Err()
}
