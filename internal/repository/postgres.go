package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/warrantyvault/warranty-tracker/internal/common"
	"github.com/warrantyvault/warranty-tracker/internal/receipt"
	"github.com/warrantyvault/warranty-tracker/internal/repository/migrations"
)

// OpenPostgres creates a pgx pool, wraps it for database/sql, and applies
// the embedded migrations.
func OpenPostgres(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*PostgresRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to database")

	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "warranty-tracker"

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	goose.SetBaseFS(migrations.Files)
	if err := goose.SetDialect("postgres"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "postgres"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("database ready")
	return &PostgresRepository{db: db, pool: pool, logger: logger}, nil
}

// PostgresRepository stores receipts in Postgres.
type PostgresRepository struct {
	db     *sql.DB
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Ping checks connectivity, catching DSN issues early.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresRepository) Close() error {
	err := r.db.Close()
	r.pool.Close()
	return err
}

const pgReceiptColumns = `id, user_id, store_name, purchase_location, purchase_date, country, currency,
	total_amount, extended_warranty, product_description, brand_name, model_number, amount,
	warranty_period, products, created_at, updated_at`

// Save inserts the receipt, re-checking for an exact duplicate inside the
// transaction so two concurrent submissions of the same receipt cannot both
// land.
func (r *PostgresRepository) Save(ctx context.Context, userID uuid.UUID, data receipt.Receipt) (uuid.UUID, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: begin: %v", common.ErrSaveFailure, err)
	}
	defer func() { _ = tx.Rollback() }()

	var existingID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM receipts
		 WHERE user_id = $1 AND store_name = $2 AND purchase_date = $3
		   AND abs(total_amount - $4) <= 0.01
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
	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO receipts (`+pgReceiptColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
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

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (StoredReceipt, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+pgReceiptColumns+` FROM receipts WHERE id = $1`, id.String())
	s, err := scanPgReceipt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredReceipt{}, common.ErrNotFound
	}
	return s, err
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]StoredReceipt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+pgReceiptColumns+` FROM receipts
		 WHERE user_id = $1 ORDER BY purchase_date DESC, created_at DESC`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}
	defer rows.Close()
	return collectPgReceipts(rows)
}

// QueryByUserAndDateRange returns receipts purchased inside [start, end].
// A non-empty storeNameLike narrows to bidirectional substring matches so
// near-variants of the same store name survive the filter.
func (r *PostgresRepository) QueryByUserAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time, storeNameLike string) ([]StoredReceipt, error) {
	q := `SELECT ` + pgReceiptColumns + ` FROM receipts
		 WHERE user_id = $1 AND purchase_date >= $2 AND purchase_date <= $3`
	args := []any{userID.String(), start.Format("2006-01-02"), end.Format("2006-01-02")}
	if storeNameLike != "" {
		q += ` AND (lower(store_name) LIKE '%' || lower($4) || '%'
		        OR lower($4) LIKE '%' || lower(store_name) || '%')`
		args = append(args, storeNameLike)
	}
	q += ` ORDER BY purchase_date DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}
	defer rows.Close()
	return collectPgReceipts(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPgReceipt(row rowScanner) (StoredReceipt, error) {
	var (
		s              StoredReceipt
		idStr, userStr string
		products       sql.NullString
	)
	err := row.Scan(
		&idStr, &userStr, &s.Data.StoreName, &s.Data.PurchaseLocation, &s.Data.PurchaseDate,
		&s.Data.Country, &s.Data.Currency, &s.Data.TotalAmount, &s.Data.ExtendedWarranty,
		&s.Data.ProductDescription, &s.Data.BrandName, &s.Data.ModelNumber, &s.Data.Amount,
		&s.Data.WarrantyPeriod, &products, &s.CreatedAt, &s.UpdatedAt,
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
	if err := unmarshalProducts(products, &s.Data); err != nil {
		return StoredReceipt{}, err
	}
	return s, nil
}

func collectPgReceipts(rows *sql.Rows) ([]StoredReceipt, error) {
	var out []StoredReceipt
	for rows.Next() {
		s, err := scanPgReceipt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func marshalProducts(data receipt.Receipt) (any, error) {
	if !data.IsMultiProduct() {
		return nil, nil
	}
	b, err := json.Marshal(data.Products)
	if err != nil {
		return nil, fmt.Errorf("marshal products: %w", err)
	}
	return string(b), nil
}

func unmarshalProducts(col sql.NullString, data *receipt.Receipt) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(col.String), &data.Products); err != nil {
		return fmt.Errorf("unmarshal products: %w", err)
	}
	return nil
}
