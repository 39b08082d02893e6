package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/warrantyvault/warranty-tracker/internal/common"
	"github.com/warrantyvault/warranty-tracker/internal/receipt"
	"github.com/warrantyvault/warranty-tracker/internal/repository/migrations"
)

// OpenSQLite opens (or creates) a local SQLite database and applies the
// embedded migrations. Used when no Postgres DSN is configured, and by
// tests via ":memory:".
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc sqlite is not safe for concurrent writers on one connection
	db.SetMaxOpenConns(1)

	goose.SetBaseFS(migrations.Files)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "sqlite"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("sqlite database ready", "path", path)
	return &SQLiteRepository{db: db, logger: logger}, nil
}

// SQLiteRepository stores receipts in a local SQLite file.
type SQLiteRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

const liteReceiptColumns = `id, user_id, store_name, purchase_location, purchase_date, country, currency,
	total_amount, extended_warranty, product_description, brand_name, model_number, amount,
	warranty_period, products, created_at, updated_at`

// Save mirrors the Postgres transactional insert: exact duplicates on
// (user, store, date, total) are rejected inside the transaction.
func (r *SQLiteRepository) Save(ctx context.Context, userID uuid.UUID, data receipt.Receipt) (uuid.UUID, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: begin: %v", common.ErrSaveFailure, err)
	}
	defer func() { _ = tx.Rollback() }()

	var existingID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM receipts
		 WHERE user_id = ? AND store_name = ? AND purchase_date = ?
		   AND abs(total_amount - ?) <= 0.01
		 LIMIT 1`,
		userID.String(), data.StoreName, data.PurchaseDate, data.TotalAmount,
	).Scan(&existingID)
	switch {
	case err == nil:
		return uuid.Nil, fmt.Errorf("%w: matches receipt %s", common.ErrDuplicateReceipt, existingID)
	case !errors.Is(err, sql.ErrNoRows):
		return uuid.Nil, fmt.Errorf("%w: duplicate check: %v", common.ErrSaveFailure, err)
	}

	products, err := marshalProducts(data)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", common.ErrSaveFailure, err)
	}

	id := uuid.New()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO receipts (`+liteReceiptColumns+`)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		id.String(), userID.String(), data.StoreName, data.PurchaseLocation, data.PurchaseDate,
		data.Country, data.Currency, data.TotalAmount, data.ExtendedWarranty,
		data.ProductDescription, data.BrandName, data.ModelNumber, data.Amount,
		data.WarrantyPeriod, products, now, now,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: insert: %v", common.ErrSaveFailure, err)
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("%w: commit: %v", common.ErrSaveFailure, err)
	}

	r.logger.Info("receipt.saved", "receipt_id", id, "user_id", userID, "store", data.StoreName)
	return id, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id uuid.UUID) (StoredReceipt, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+liteReceiptColumns+` FROM receipts WHERE id = ?`, id.String())
	s, err := scanLiteReceipt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredReceipt{}, common.ErrNotFound
	}
	return s, err
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]StoredReceipt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+liteReceiptColumns+` FROM receipts
		 WHERE user_id = ? ORDER BY purchase_date DESC, created_at DESC`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}
	defer rows.Close()
	return collectLiteReceipts(rows)
}

func (r *SQLiteRepository) QueryByUserAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time, storeNameLike string) ([]StoredReceipt, error) {
	q := `SELECT ` + liteReceiptColumns + ` FROM receipts
		 WHERE user_id = ? AND purchase_date >= ? AND purchase_date <= ?`
	args := []any{userID.String(), start.Format("2006-01-02"), end.Format("2006-01-02")}
	if storeNameLike != "" {
		q += ` AND (lower(store_name) LIKE '%' || lower(?) || '%'
		        OR lower(?) LIKE '%' || lower(store_name) || '%')`
		args = append(args, storeNameLike, storeNameLike)
	}
	q += ` ORDER BY purchase_date DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}
	defer rows.Close()
	return collectLiteReceipts(rows)
}

func scanLiteReceipt(row rowScanner) (StoredReceipt, error) {
	var (
		s                  StoredReceipt
		idStr, userStr     string
		createdS, updatedS string
		products           sql.NullString
	)
	err := row.Scan(
		&idStr, &userStr, &s.Data.StoreName, &s.Data.PurchaseLocation, &s.Data.PurchaseDate,
		&s.Data.Country, &s.Data.Currency, &s.Data.TotalAmount, &s.Data.ExtendedWarranty,
		&s.Data.ProductDescription, &s.Data.BrandName, &s.Data.ModelNumber, &s.Data.Amount,
		&s.Data.WarrantyPeriod, &products, &createdS, &updatedS,
	)
	if err != nil {
		return StoredReceipt{}, err
	}
	if s.ID, err = uuid.Parse(idStr); err != nil {
		return StoredReceipt{}, fmt.Errorf("parse receipt id: %w", err)
	}
	if s.UserID, err = uuid.Parse(userStr); err != nil {
		return StoredReceipt{}, fmt.Errorf("parse user id: %w", err)
	}
	if s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdS); err != nil {
		return StoredReceipt{}, fmt.Errorf("parse created_at: %w", err)
	}
	if s.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedS); err != nil {
		return StoredReceipt{}, fmt.Errorf("parse updated_at: %w", err)
	}
	if err := unmarshalProducts(products, &s.Data); err != nil {
		return StoredReceipt{}, err
	}
	return s, nil
}

func collectLiteReceipts(rows *sql.Rows) ([]StoredReceipt, error) {
	var out []StoredReceipt
	for rows.Next() {
		s, err := scanLiteReceipt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
