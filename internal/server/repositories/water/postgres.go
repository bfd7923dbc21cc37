// Package water keeps one accumulated water record per user and day.
package water

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/dbx"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
)

const recordColumns = `id, user_id, to_char(date, 'YYYY-MM-DD'), total_ml, events, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// AddIntake is a single statement, so concurrent intakes for the same day
// serialise on the row and none is lost.
func (r *PostgresRepository) AddIntake(ctx context.Context, userID, date string, event models.WaterEvent) (*models.WaterRecord, error) {
	events, err := json.Marshal([]models.WaterEvent{event})
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}

	query := `
		INSERT INTO water_records (user_id, date, total_ml, events, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, date) DO UPDATE SET
			total_ml = water_records.total_ml + EXCLUDED.total_ml,
			events = water_records.events || EXCLUDED.events,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + recordColumns

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, userID, date, event.AmountMl, string(events), event.Timestamp))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return rec, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, date string) (*models.WaterRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM water_records WHERE user_id = $1 AND date = $2`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return rec, nil
}

func scanRecord(row *sql.Row) (*models.WaterRecord, error) {
	var (
		rec    models.WaterRecord
		events []byte
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.TotalMl, &events, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if len(events) > 0 {
		if err := json.Unmarshal(events, &rec.Events); err != nil {
			return nil, fmt.Errorf("decode events: %w", err)
		}
	}
	return &rec, nil
}
