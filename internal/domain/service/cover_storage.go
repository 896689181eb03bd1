package service

import (
	"context"
	"io"
)

// CoverStorage stores book cover images.
type CoverStorage interface {
	// Save writes the image under name and returns the path or URL to store on the book.
	Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error)

	// Delete removes a previously saved image given the value returned by Save.
	Delete(ctx context.Context, location string) error
}
