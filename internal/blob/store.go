// Package blob turns the raw blob table into the photo store used by day
// entries: it owns the path layout and the reference URLs handed to clients.
package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trailbook/backend/internal/domain"
	"github.com/pkordes/trailbook/backend/internal/repo"
)

// RoutePrefix is the HTTP path under which stored blobs are served.
const RoutePrefix = "/blobs/"

// Store stores photos and builds fetchable URLs for them.
type Store struct {
	repo    repo.BlobRepo
	baseURL string
}

// NewStore returns a Store whose URLs are rooted at baseURL
// (e.g. "https://api.example.com").
func NewStore(r repo.BlobRepo, baseURL string) *Store {
	return &Store{repo: r, baseURL: strings.TrimRight(baseURL, "/")}
}

// TripFolder is the folder holding every photo of a trip, with trailing slash.
func TripFolder(tripID uuid.UUID) string {
	return "day_entries/" + tripID.String() + "/"
}

// PhotoPath is where the index-th photo of the entry for day is stored.
func PhotoPath(tripID uuid.UUID, day time.Time, index int) string {
	return fmt.Sprintf("%s%s/photo_%d.jpg", TripFolder(tripID), domain.DateKey(day), index)
}

// URL returns the reference URL for path.
func (s *Store) URL(path string) string {
	return s.baseURL + RoutePrefix + path
}

// Put stores data at path and returns its reference URL.
func (s *Store) Put(ctx context.Context, path, contentType string, data []byte) (string, error) {
	err := s.repo.Put(ctx, domain.Blob{Path: path, ContentType: contentType, Data: data})
	if err != nil {
		return "", fmt.Errorf("blob.Store.Put: %w", err)
	}
	return s.URL(path), nil
}

// Get returns the blob stored at path.
func (s *Store) Get(ctx context.Context, path string) (domain.Blob, error) {
	b, err := s.repo.Get(ctx, path)
	if err != nil {
		return domain.Blob{}, fmt.Errorf("blob.Store.Get: %w", err)
	}
	return b, nil
}

// List returns every path under prefix, at any depth.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	paths, err := s.repo.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("blob.Store.List: %w", err)
	}
	return paths, nil
}

// DeleteFolder removes everything under prefix. It keeps going after a
// failed delete and returns all failures joined.
func (s *Store) DeleteFolder(ctx context.Context, prefix string) error {
	paths, err := s.List(ctx, prefix)
	if err != nil {
		return fmt.Errorf("blob.Store.DeleteFolder: %w", err)
	}

	var errs []error
	for _, p := range paths {
		if err := s.repo.Delete(ctx, p); err != nil && !errors.Is(err, domain.ErrNotFound) {
			errs = append(errs, fmt.Errorf("delete %s: %w", p, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("blob.Store.DeleteFolder: %w", errors.Join(errs...))
	}
	return nil
}
