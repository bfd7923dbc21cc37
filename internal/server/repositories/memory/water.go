package memory

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/google/uuid"
)

type waterRepo struct{ s *store }

func waterKey(userID, date string) string { return userID + "|" + date }

func cloneRecord(rec *models.WaterRecord) *models.WaterRecord {
	cp := *rec
	cp.Events = slices.Clone(rec.Events)
	return &cp
}

func (r *waterRepo) AddIntake(_ context.Context, userID, date string, event models.WaterEvent) (*models.WaterRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return nil, err
	}

	key := waterKey(userID, date)
	rec, ok := r.s.water[key]
	if !ok {
		rec = &models.WaterRecord{ID: uuid.NewString(), UserID: userID, Date: date}
		r.s.water[key] = rec
	}
	rec.TotalMl += event.AmountMl
	rec.Events = append(rec.Events, event)
	rec.UpdatedAt = event.Timestamp
	return cloneRecord(rec), nil
}

func (r *waterRepo) Get(_ context.Context, userID, date string) (*models.WaterRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return nil, err
	}
	rec, ok := r.s.water[waterKey(userID, date)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneRecord(rec), nil
}
