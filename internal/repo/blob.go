package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/trailbook/backend/internal/domain"
)

// BlobRepo stores photo bytes under hierarchical, slash-separated paths.
type BlobRepo interface {
	// Put inserts or replaces the blob at path.
	Put(ctx context.Context, blob domain.Blob) error

	// Get returns domain.ErrNotFound if nothing is stored at path.
	Get(ctx context.Context, path string) (domain.Blob, error)

	// List returns every path that starts with prefix, at any depth, sorted.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete returns domain.ErrNotFound if nothing is stored at path.
	Delete(ctx context.Context, path string) error
}

type pgBlobRepo struct {
	db db
}

// NewBlobRepo constructs a BlobRepo backed by the provided db connection.
func NewBlobRepo(db db) BlobRepo {
	return &pgBlobRepo{db: db}
}

func (r *pgBlobRepo) Put(ctx context.Context, blob domain.Blob) error {
	const q = `
		INSERT INTO blobs (path, content_type, data, size)
		VALUES (@path, @content_type, @data, @size)
		ON CONFLICT (path) DO UPDATE
		SET content_type = EXCLUDED.content_type,
		    data         = EXCLUDED.data,
		    size         = EXCLUDED.size,
		    created_at   = now()`

	args := pgx.NamedArgs{
		"path":         blob.Path,
		"content_type": blob.ContentType,
		"data":         blob.Data,
		"size":         int64(len(blob.Data)),
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.BlobRepo.Put: %w", err)
	}
	return nil
}

func (r *pgBlobRepo) Get(ctx context.Context, path string) (domain.Blob, error) {
	const q = `SELECT path, content_type, data, created_at FROM blobs WHERE path = @path`

	var b domain.Blob
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"path": path}).Scan(&b.Path, &b.ContentType, &b.Data, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Blob{}, fmt.Errorf("repo.BlobRepo.Get: %w", domain.ErrNotFound)
		}
		return domain.Blob{}, fmt.Errorf("repo.BlobRepo.Get: %w", err)
	}
	return b, nil
}

func (r *pgBlobRepo) List(ctx context.Context, prefix string) ([]string, error) {
	const q = `SELECT path FROM blobs WHERE path LIKE @pattern ESCAPE '\' ORDER BY path`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"pattern": escapeLike(prefix) + "%"})
	if err != nil {
		return nil, fmt.Errorf("repo.BlobRepo.List: %w", err)
	}
	paths, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("repo.BlobRepo.List: rows: %w", err)
	}
	return paths, nil
}

func (r *pgBlobRepo) Delete(ctx context.Context, path string) error {
	const q = `DELETE FROM blobs WHERE path = @path`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"path": path})
	if err != nil {
		return fmt.Errorf("repo.BlobRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BlobRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// escapeLike escapes the LIKE metacharacters in s so it matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
