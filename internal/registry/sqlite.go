package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gemini-go/files"
	"github.com/dmitrijs2005/gemini-go/internal/dbx"
	"github.com/dmitrijs2005/gemini-go/internal/registry/migrations"
)

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// Open opens the registry database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*SQLiteRepository, error) {
	db, err := dbx.OpenSQLite(ctx, dsn, migrations.FS)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer.
	db.SetMaxOpenConns(1)
	return NewSQLiteRepository(db), nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Create(ctx context.Context, u *Upload) error {

	now := r.now().UTC()
	u.Status = StatusPending
	u.CreatedAt, u.UpdatedAt = now, now

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query := `insert into uploads (id, location, display_name, mime_type, size_bytes, status, created_at, updated_at)
			values (?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.ExecContext(ctx, query, u.ID, u.Location, u.DisplayName, u.MimeType, u.SizeBytes,
			u.Status, now.UnixMilli(), now.UnixMilli())
		if err != nil {
			return fmt.Errorf("failed to insert upload: %w", err)
		}
		return addEvent(ctx, tx, u.ID, StatusPending, u.Location, now)
	})
}

func (r *SQLiteRepository) MarkUploaded(ctx context.Context, id string, f *files.UploadedFile) error {

	now := r.now().UTC()

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		size, err := f.Size()
		if err != nil {
			return fmt.Errorf("invalid size %q: %w", f.SizeBytes, err)
		}

		query := `update uploads set status=?, name=?, uri=?, state=?, sha256_hash=?, expiration_time=?,
			mime_type=?, size_bytes=?, updated_at=? where id=?`
		res, err := tx.ExecContext(ctx, query, StatusUploaded, f.Name, f.URI, f.State.String(), f.SHA256Hash,
			f.ExpirationTime, f.MimeType, size, now.UnixMilli(), id)
		if err != nil {
			return fmt.Errorf("failed to mark upload: %w", err)
		}
		if err := expectOne(res, id); err != nil {
			return err
		}
		return addEvent(ctx, tx, id, StatusUploaded, f.Name, now)
	})
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, id string, cause error) error {

	now := r.now().UTC()
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx, `update uploads set status=?, error=?, updated_at=? where id=?`,
			StatusFailed, msg, now.UnixMilli(), id)
		if err != nil {
			return fmt.Errorf("failed to mark upload: %w", err)
		}
		if err := expectOne(res, id); err != nil {
			return err
		}
		return addEvent(ctx, tx, id, StatusFailed, msg, now)
	})
}

func (r *SQLiteRepository) MarkDeleted(ctx context.Context, name string) error {

	now := r.now().UTC()

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		rows, err := tx.QueryContext(ctx, `select id from uploads where name=? and status<>?`, name, StatusDeleted)
		if err != nil {
			return fmt.Errorf("error selecting uploads: %w", err)
		}
		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			ids = append(ids, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if len(ids) == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}

		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, `update uploads set status=?, updated_at=? where id=?`,
				StatusDeleted, now.UnixMilli(), id); err != nil {
				return fmt.Errorf("failed to mark upload: %w", err)
			}
			if err := addEvent(ctx, tx, id, StatusDeleted, name, now); err != nil {
				return err
			}
		}
		return nil
	})
}

const uploadColumns = `id, location, display_name, mime_type, size_bytes, status, name, uri, state,
	sha256_hash, expiration_time, error, created_at, updated_at`

func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*Upload, error) {

	query := `select ` + uploadColumns + ` from uploads where name=? order by created_at desc limit 1`
	u, err := scanUpload(r.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving upload: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) List(ctx context.Context, includeDeleted bool) ([]*Upload, error) {

	query := `select ` + uploadColumns + ` from uploads where status<>? or ? order by created_at desc, id`
	rows, err := r.db.QueryContext(ctx, query, StatusDeleted, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("error selecting uploads: %w", err)
	}
	defer rows.Close()

	var result []*Upload
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SQLiteRepository) Events(ctx context.Context, id string) ([]Event, error) {

	rows, err := r.db.QueryContext(ctx, `select upload_id, status, detail, at from upload_events where upload_id=? order by id`, id)
	if err != nil {
		return nil, fmt.Errorf("error selecting events: %w", err)
	}
	defer rows.Close()

	var result []Event
	for rows.Next() {
		var (
			e  Event
			at int64
		)
		if err := rows.Scan(&e.UploadID, &e.Status, &e.Detail, &at); err != nil {
			return nil, err
		}
		e.At = time.UnixMilli(at).UTC()
		result = append(result, e)
	}

	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUpload(s scanner) (*Upload, error) {
	var (
		u                Upload
		created, updated int64
	)
	err := s.Scan(&u.ID, &u.Location, &u.DisplayName, &u.MimeType, &u.SizeBytes, &u.Status, &u.Name, &u.URI,
		&u.State, &u.SHA256Hash, &u.ExpirationTime, &u.Error, &created, &updated)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = time.UnixMilli(created).UTC()
	u.UpdatedAt = time.UnixMilli(updated).UTC()
	return &u, nil
}

func addEvent(ctx context.Context, tx dbx.DBTX, id string, status Status, detail string, at time.Time) error {
	_, err := tx.ExecContext(ctx, `insert into upload_events (upload_id, status, detail, at) values (?, ?, ?, ?)`,
		id, status, detail, at.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
