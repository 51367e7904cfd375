// Package blobstore keeps the binary image attachments of the record store.
package blobstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a key has no blob.
var ErrNotFound = errors.New("blobstore: not found")

// Store is a flat key/value blob store.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
}

// Orphans returns the keys in s that are not in referenced, in store order.
func Orphans(ctx context.Context, s Store, referenced []string) ([]string, error) {
	keys, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	live := make(map[string]struct{}, len(referenced))
	for _, k := range referenced {
		live[k] = struct{}{}
	}
	var orphans []string
	for _, k := range keys {
		if _, ok := live[k]; !ok {
			orphans = append(orphans, k)
		}
	}
	return orphans, nil
}
