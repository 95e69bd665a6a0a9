// Package storage archives rendered artifacts (region reports) under
// slash-separated keys such as reports/bali/<run>.html.
package storage

import (
	"errors"
	"io"
)

var ErrInvalidKey = errors.New("storage: invalid key")

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	List(prefix string) ([]string, error)
	SignedURL(key string) (string, error) // fs returns "file://..." for dev
}
