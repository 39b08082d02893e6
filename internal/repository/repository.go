// Package repository persists receipts to Postgres or a local SQLite file
// and exposes the query surface duplicate detection depends on.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/warrantyvault/warranty-tracker/internal/dedupe"
	"github.com/warrantyvault/warranty-tracker/internal/receipt"
)

// StoredReceipt is a saved receipt with its identity and timestamps.
type StoredReceipt struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Data      receipt.Receipt `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ReceiptRepository is the store collaborator of the intake pipeline.
// Save re-checks for an exact duplicate (user, store, date, total) inside
// the insert transaction: two simultaneous submissions of the same receipt
// cannot both pass the fuzzy check and both land.
type ReceiptRepository interface {
	Save(ctx context.Context, userID uuid.UUID, data receipt.Receipt) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (StoredReceipt, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]StoredReceipt, error)
	QueryByUserAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time, storeNameLike string) ([]StoredReceipt, error)
	Close() error
}

// CandidateAdapter exposes a ReceiptRepository as a dedupe candidate source.
type CandidateAdapter struct {
	Repo ReceiptRepository
}

func (a CandidateAdapter) Candidates(ctx context.Context, userID uuid.UUID, start, end time.Time, storeName string) ([]dedupe.Candidate, error) {
	stored, err := a.Repo.QueryByUserAndDateRange(ctx, userID, start, end, storeName)
	if err != nil {
		return nil, err
	}
	out := make([]dedupe.Candidate, 0, len(stored))
	for _, s := range stored {
		out = append(out, dedupe.Candidate{ID: s.ID, Data: s.Data})
	}
	return out, nil
}
