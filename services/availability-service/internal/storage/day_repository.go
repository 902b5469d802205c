package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/md-rashed-zaman/openhours/libs/db"
	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/bitset"
)

// DayBits is one date's bitmap for a single provider.
type DayBits struct {
	Day  time.Time
	Bits bitset.Bitmap
}

// ProviderDayBits is the cross-provider variant used by bulk seeding/backfill.
type ProviderDayBits struct {
	ProviderID string
	Day        time.Time
	Bits       bitset.Bitmap
}

// DayRepository is the only component that touches persisted bitmaps.
type DayRepository struct {
	pool *db.Pool
}

func NewDayRepository(pool *db.Pool) *DayRepository {
	return &DayRepository{pool: pool}
}

const dateLayout = "2006-01-02"

// GetDayBits is a point lookup. Absence is (zero, false, nil), never an error.
func (r *DayRepository) GetDayBits(ctx context.Context, providerID string, day time.Time) (bitset.Bitmap, bool, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `
		SELECT bits
		FROM availability_days
		WHERE provider_id = $1 AND day_date = $2
	`, providerID, day).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return bitset.Bitmap{}, false, nil
		}
		return bitset.Bitmap{}, false, wrap("get day bits", err)
	}
	bm, err := toBitmap(raw)
	if err != nil {
		return bitset.Bitmap{}, false, wrap("get day bits", err)
	}
	return bm, true, nil
}

// GetWeek fetches the 7 dates starting at weekStart in a single range query.
// Dates without a row are simply absent from the result map.
func (r *DayRepository) GetWeek(ctx context.Context, providerID string, weekStart time.Time) (map[string]bitset.Bitmap, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT day_date, bits
		FROM availability_days
		WHERE provider_id = $1
		  AND day_date >= $2
		  AND day_date <= $3
		ORDER BY day_date
	`, providerID, weekStart, weekStart.AddDate(0, 0, 6))
	if err != nil {
		return nil, wrap("get week", err)
	}
	defer rows.Close()

	week := make(map[string]bitset.Bitmap, 7)
	for rows.Next() {
		var day time.Time
		var raw []byte
		if err := rows.Scan(&day, &raw); err != nil {
			return nil, wrap("get week", err)
		}
		bm, err := toBitmap(raw)
		if err != nil {
			return nil, wrap("get week", err)
		}
		week[day.Format(dateLayout)] = bm
	}
	if rows.Err() != nil {
		return nil, wrap("get week", rows.Err())
	}
	return week, nil
}

// GetDaysInRange is the generalized range fetch, inclusive on both ends.
func (r *DayRepository) GetDaysInRange(ctx context.Context, providerID string, start, end time.Time) ([]DayBits, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT day_date, bits
		FROM availability_days
		WHERE provider_id = $1
		  AND day_date >= $2
		  AND day_date <= $3
		ORDER BY day_date
	`, providerID, start, end)
	if err != nil {
		return nil, wrap("get days in range", err)
	}
	defer rows.Close()

	var out []DayBits
	for rows.Next() {
		var d DayBits
		var raw []byte
		if err := rows.Scan(&d.Day, &raw); err != nil {
			return nil, wrap("get days in range", err)
		}
		if d.Bits, err = toBitmap(raw); err != nil {
			return nil, wrap("get days in range", err)
		}
		out = append(out, d)
	}
	if rows.Err() != nil {
		return nil, wrap("get days in range", rows.Err())
	}
	return out, nil
}

// UpsertWeek writes one row per date as a true insert-or-update, batched over a
// single round trip. Delete-then-insert would open a gap for concurrent
// readers, so it is never used here.
func (r *DayRepository) UpsertWeek(ctx context.Context, providerID string, items []DayBits) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(`
			INSERT INTO availability_days (provider_id, day_date, bits, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (provider_id, day_date) DO UPDATE
			SET bits = EXCLUDED.bits,
				updated_at = now()
		`, providerID, item.Day, item.Bits[:])
	}
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	var affected int64
	for range items {
		tag, err := results.Exec()
		if err != nil {
			return affected, wrap("upsert week", err)
		}
		affected += tag.RowsAffected()
	}
	return affected, nil
}

// BulkUpsertAll upserts rows across providers in one batch. Empty input
// returns 0 without touching the store.
func (r *DayRepository) BulkUpsertAll(ctx context.Context, items []ProviderDayBits) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(`
			INSERT INTO availability_days (provider_id, day_date, bits, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (provider_id, day_date) DO UPDATE
			SET bits = EXCLUDED.bits,
				updated_at = now()
		`, item.ProviderID, item.Day, item.Bits[:])
	}
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	var affected int64
	for range items {
		tag, err := results.Exec()
		if err != nil {
			return affected, wrap("bulk upsert", err)
		}
		affected += tag.RowsAffected()
	}
	return affected, nil
}

// BulkUpsertNative slices the input into batches of batchSize so seeding large
// backfills does not build one unbounded batch.
func (r *DayRepository) BulkUpsertNative(ctx context.Context, items []ProviderDayBits, batchSize int) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	var total int64
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		n, err := r.BulkUpsertAll(ctx, items[start:end])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// DeleteDaysForProvider removes a provider's rows, optionally keeping dates
// still referenced by an existing booking (supplied by the deletion workflow).
func (r *DayRepository) DeleteDaysForProvider(ctx context.Context, providerID string, excludeDates []time.Time) (int64, error) {
	var tag pgconn.CommandTag
	var err error
	if len(excludeDates) == 0 {
		tag, err = r.pool.Exec(ctx, `
			DELETE FROM availability_days
			WHERE provider_id = $1
		`, providerID)
	} else {
		tag, err = r.pool.Exec(ctx, `
			DELETE FROM availability_days
			WHERE provider_id = $1
			  AND day_date != ALL($2)
		`, providerID, excludeDates)
	}
	if err != nil {
		return 0, wrap("delete days for provider", err)
	}
	return tag.RowsAffected(), nil
}

// CountPurgeable counts rows strictly older than cutoff (dry-run path).
func (r *DayRepository) CountPurgeable(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM availability_days
		WHERE day_date < $1
	`, cutoff).Scan(&n)
	if err != nil {
		return 0, wrap("count purgeable", err)
	}
	return n, nil
}

// DeletePurgeableChunk deletes up to limit rows strictly older than cutoff and
// returns how many went. Retention loops until this returns 0.
func (r *DayRepository) DeletePurgeableChunk(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	if limit <= 0 {
		limit = 1000
	}
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM availability_days
		WHERE (provider_id, day_date) IN (
			SELECT provider_id, day_date
			FROM availability_days
			WHERE day_date < $1
			LIMIT $2
		)
	`, cutoff, limit)
	if err != nil {
		return 0, wrap("delete purgeable chunk", err)
	}
	return tag.RowsAffected(), nil
}

func toBitmap(raw []byte) (bitset.Bitmap, error) {
	if len(raw) != bitset.BitmapLen {
		return bitset.Bitmap{}, fmt.Errorf("bitmap length %d, want %d", len(raw), bitset.BitmapLen)
	}
	var bm bitset.Bitmap
	copy(bm[:], raw)
	return bm, nil
}
