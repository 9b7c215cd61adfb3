package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"billtracker/internal/core"
	"billtracker/internal/store"
)

// SQLiteRepository persists the four collections as JSON documents in
// sqlite, one row per entity keyed by identity. It implements every port
// in the store package.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) LoadBills(ctx context.Context) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT doc FROM bills ORDER BY identity`)
	if err != nil {
		return nil, fmt.Errorf("query bills: %w", err)
	}
	defer rows.Close()

	var bills []core.Bill
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		var b core.Bill
		if err := json.Unmarshal([]byte(doc), &b); err != nil {
			return nil, fmt.Errorf("decode bill: %w", err)
		}
		bills = append(bills, b.Normalize())
	}
	return bills, rows.Err()
}

func (r *SQLiteRepository) UpsertBill(ctx context.Context, b core.Bill) error {
	if err := b.Validate(); err != nil {
		return err
	}
	doc, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode bill: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO bills (kind, identity, doc) VALUES (?, ?, ?)
		ON CONFLICT (kind, identity) DO UPDATE SET doc = excluded.doc
	`, string(b.Kind), b.Identity(), string(doc))
	if err != nil {
		return fmt.Errorf("upsert bill: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteBill(ctx context.Context, kind core.BillKind, identity string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE kind = ? AND identity = ?`, string(kind), identity)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) LoadAudits(ctx context.Context) ([]core.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT doc FROM audits ORDER BY pan`)
	if err != nil {
		return nil, fmt.Errorf("query audits: %w", err)
	}
	defer rows.Close()

	var audits []core.AuditEntry
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		var e core.AuditEntry
		if err := json.Unmarshal([]byte(doc), &e); err != nil {
			return nil, fmt.Errorf("decode audit: %w", err)
		}
		audits = append(audits, e)
	}
	return audits, rows.Err()
}

func (r *SQLiteRepository) UpsertAudit(ctx context.Context, e core.AuditEntry) (core.AuditEntry, error) {
	doc, err := json.Marshal(e)
	if err != nil {
		return core.AuditEntry{}, fmt.Errorf("encode audit: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO audits (pan, doc) VALUES (?, ?)
		ON CONFLICT (pan) DO UPDATE SET doc = excluded.doc
	`, e.PAN, string(doc))
	if err != nil {
		return core.AuditEntry{}, fmt.Errorf("upsert audit: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) DeleteAudit(ctx context.Context, pan string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audits WHERE pan = ?`, pan)
	if err != nil {
		return fmt.Errorf("delete audit: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) LoadStatements(ctx context.Context, collection string) ([]core.BankStatementRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT doc FROM statement_rows WHERE collection = ? ORDER BY rowid`, collection)
	if err != nil {
		return nil, fmt.Errorf("query statement rows: %w", err)
	}
	defer rows.Close()

	var out []core.BankStatementRow
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan statement row: %w", err)
		}
		var row core.BankStatementRow
		if err := json.Unmarshal([]byte(doc), &row); err != nil {
			return nil, fmt.Errorf("decode statement row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpsertStatementRow(ctx context.Context, collection string, row core.BankStatementRow) (core.BankStatementRow, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	doc, err := json.Marshal(row)
	if err != nil {
		return core.BankStatementRow{}, fmt.Errorf("encode statement row: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO statement_rows (collection, id, doc) VALUES (?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET doc = excluded.doc
	`, collection, row.ID, string(doc))
	if err != nil {
		return core.BankStatementRow{}, fmt.Errorf("upsert statement row: %w", err)
	}
	return row, nil
}

func (r *SQLiteRepository) SoftDeleteRow(ctx context.Context, collection, id string) error {
	return r.setDeleted(ctx, collection, id, true)
}

func (r *SQLiteRepository) RestoreRow(ctx context.Context, collection, id string) error {
	return r.setDeleted(ctx, collection, id, false)
}

func (r *SQLiteRepository) setDeleted(ctx context.Context, collection, id string, deleted bool) error {
	var doc string
	err := r.db.QueryRowContext(ctx,
		`SELECT doc FROM statement_rows WHERE collection = ? AND id = ?`, collection, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load statement row: %w", err)
	}
	var row core.BankStatementRow
	if err := json.Unmarshal([]byte(doc), &row); err != nil {
		return fmt.Errorf("decode statement row: %w", err)
	}
	row.Deleted = deleted
	updated, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode statement row: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE statement_rows SET doc = ? WHERE collection = ? AND id = ?`, string(updated), collection, id)
	if err != nil {
		return fmt.Errorf("update statement row: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) LoadFeeEntries(ctx context.Context) ([]core.CurrentFeeEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT doc FROM fee_entries ORDER BY name_key`)
	if err != nil {
		return nil, fmt.Errorf("query fee entries: %w", err)
	}
	defer rows.Close()

	var fees []core.CurrentFeeEntry
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan fee entry: %w", err)
		}
		var e core.CurrentFeeEntry
		if err := json.Unmarshal([]byte(doc), &e); err != nil {
			return nil, fmt.Errorf("decode fee entry: %w", err)
		}
		fees = append(fees, e)
	}
	return fees, rows.Err()
}

func (r *SQLiteRepository) UpsertFeeEntry(ctx context.Context, e core.CurrentFeeEntry) error {
	doc, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode fee entry: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO fee_entries (name_key, doc) VALUES (?, ?)
		ON CONFLICT (name_key) DO UPDATE SET doc = excluded.doc
	`, core.NormalizeName(e.Name), string(doc))
	if err != nil {
		return fmt.Errorf("upsert fee entry: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
