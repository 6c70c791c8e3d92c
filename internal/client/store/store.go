// Package store implements the durable local record store backed by SQLite.
//
// Every syncable table shares one row shape (see Record): fixed meta columns
// plus a JSON column for domain fields. Tables are small, bounded by a
// single farm's data, so queries are full scans filtered in Go.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"granja/internal/client/models"
	"granja/internal/common"
	"granja/internal/dbx"
)

// Store is the entry point for local persistence. Its methods run outside
// any transaction; use WithTx to group multi-row writes atomically.
type Store struct {
	db *sql.DB
	ops
}

// Tx exposes the same operations inside one transaction.
type Tx struct {
	ops
}

// ops carries the implementations shared by Store and Tx.
type ops struct {
	q dbx.DBTX
}

func New(db *sql.DB) *Store {
	return &Store{db: db, ops: ops{q: db}}
}

// WithTx runs fn inside one transaction: either every write in fn commits
// or none do.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, q dbx.DBTX) error {
		return fn(ctx, &Tx{ops{q: q}})
	})
}

// BulkPut upserts records as one atomic unit.
func (s *Store) BulkPut(ctx context.Context, table string, recs []*Record) error {
	return s.WithTx(ctx, func(ctx context.Context, tx *Tx) error {
		return tx.BulkPut(ctx, table, recs)
	})
}

// Modify applies patch to the given subset atomically.
func (s *Store) Modify(ctx context.Context, table string, ids []string, patch func(*Record)) error {
	return s.WithTx(ctx, func(ctx context.Context, tx *Tx) error {
		return tx.Modify(ctx, table, ids, patch)
	})
}

// Handle exposes the transactional DB handle so repositories bound to
// dbx.DBTX (e.g. the key-value state) can join the same transaction.
func (t *Tx) Handle() dbx.DBTX {
	return t.q
}

const recordColumns = "id, created_at, updated_at, deleted_at, sync_status, data"

func tableOrErr(name string) (Table, error) {
	t, ok := TableByName(name)
	if !ok {
		return Table{}, fmt.Errorf("%w: %s", common.ErrUnknownTable, name)
	}
	return t, nil
}

// Get returns the record with the given id, or (nil, nil) when absent.
// Callers must treat nil as "not found".
func (o ops) Get(ctx context.Context, table, id string) (*Record, error) {
	tbl, err := tableOrErr(table)
	if err != nil {
		return nil, err
	}
	row := o.q.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, recordColumns, tbl.Name), id)

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s[%s]: %w", table, id, err)
	}
	return rec, nil
}

// Query returns every record matching the predicate. A nil predicate
// returns all rows, tombstones included.
func (o ops) Query(ctx context.Context, table string, pred func(*Record) bool) ([]*Record, error) {
	tbl, err := tableOrErr(table)
	if err != nil {
		return nil, err
	}
	rows, err := o.q.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s`, recordColumns, tbl.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var result []*Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		if pred == nil || pred(rec) {
			result = append(result, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", table, err)
	}
	return result, nil
}

// Pending returns the rows awaiting push, using the sync_status index.
func (o ops) Pending(ctx context.Context, table string) ([]*Record, error) {
	tbl, err := tableOrErr(table)
	if err != nil {
		return nil, err
	}
	rows, err := o.q.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE sync_status = ?`, recordColumns, tbl.Name),
		string(models.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("failed to query pending %s: %w", table, err)
	}
	defer rows.Close()

	var result []*Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", table, err)
	}
	return result, nil
}

// PendingCount sums pending rows across all tables. Pure read, safe to poll.
func (o ops) PendingCount(ctx context.Context) (int, error) {
	total := 0
	for _, tbl := range Tables() {
		var n int
		err := o.q.QueryRowContext(ctx,
			fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE sync_status = ?`, tbl.Name),
			string(models.StatusPending)).Scan(&n)
		if err != nil {
			return 0, fmt.Errorf("failed to count pending %s: %w", tbl.Name, err)
		}
		total += n
	}
	return total, nil
}

// Put upserts a record by id, overwriting all columns.
func (o ops) Put(ctx context.Context, table string, rec *Record) error {
	tbl, err := tableOrErr(table)
	if err != nil {
		return err
	}
	if rec.ID == "" {
		return fmt.Errorf("failed to put into %s: record has no id", table)
	}
	data, err := marshalFields(rec.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode %s[%s]: %w", table, rec.ID, err)
	}

	var deletedAt any
	if rec.DeletedAt != nil {
		deletedAt = FormatTime(*rec.DeletedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, created_at, updated_at, deleted_at, sync_status, data)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at,
			sync_status = excluded.sync_status,
			data = excluded.data
	`, tbl.Name)

	_, err = o.q.ExecContext(ctx, query,
		rec.ID, FormatTime(rec.CreatedAt), FormatTime(rec.UpdatedAt),
		deletedAt, string(rec.SyncStatus), data)
	if err != nil {
		return fmt.Errorf("failed to put %s[%s]: %w", table, rec.ID, err)
	}
	return nil
}

// BulkPut upserts records one by one. On a Tx this joins the surrounding
// transaction; Store.BulkPut wraps it in its own.
func (o ops) BulkPut(ctx context.Context, table string, recs []*Record) error {
	for _, rec := range recs {
		if err := o.Put(ctx, table, rec); err != nil {
			return err
		}
	}
	return nil
}

// BulkDelete hard-deletes rows by id. Used only for server-confirmed
// tombstones and dedup cleanup, never for user-facing soft delete.
func (o ops) BulkDelete(ctx context.Context, table string, ids []string) error {
	tbl, err := tableOrErr(table)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err = o.q.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id IN (%s)`, tbl.Name, placeholders), args...)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return nil
}

// Modify loads each record, applies patch and writes it back. Missing ids
// are skipped silently.
func (o ops) Modify(ctx context.Context, table string, ids []string, patch func(*Record)) error {
	for _, id := range ids {
		rec, err := o.Get(ctx, table, id)
		if err != nil {
			return err
		}
		if rec == nil {
			continue
		}
		patch(rec)
		if err := o.Put(ctx, table, rec); err != nil {
			return err
		}
	}
	return nil
}

func marshalFields(fields map[string]any) (string, error) {
	if fields == nil {
		return "{}", nil
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func scanRecord(scan func(dest ...any) error) (*Record, error) {
	var (
		rec        Record
		createdAt  string
		updatedAt  string
		deletedAt  sql.NullString
		syncStatus string
		data       string
	)
	if err := scan(&rec.ID, &createdAt, &updatedAt, &deletedAt, &syncStatus, &data); err != nil {
		return nil, err
	}

	var err error
	if rec.CreatedAt, err = ParseTime(createdAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return nil, err
	}
	if deletedAt.Valid && deletedAt.String != "" {
		t, err := ParseTime(deletedAt.String)
		if err != nil {
			return nil, err
		}
		rec.DeletedAt = &t
	}
	rec.SyncStatus = models.SyncStatus(syncStatus)

	rec.Fields = make(map[string]any)
	if data != "" {
		if err := json.Unmarshal([]byte(data), &rec.Fields); err != nil {
			return nil, fmt.Errorf("bad data column: %w", err)
		}
	}
	return &rec, nil
}
