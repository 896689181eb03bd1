package storage

import (
	"context"
	"io"
	"log/slog"
	"path"
	"strings"

	"library/internal/domain/service"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"
)

// localStorage keeps covers in a directory bucket that the HTTP server exposes under urlPrefix.
type localStorage struct {
	bucket    *blob.Bucket
	urlPrefix string
	logger    *slog.Logger
}

// NewLocalStorage opens (and creates when missing) dir as a file bucket.
func NewLocalStorage(dir, urlPrefix string, logger *slog.Logger) (service.CoverStorage, io.Closer, error) {
	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{
		CreateDir: true,
		Metadata:  fileblob.MetadataDontWrite,
	})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open upload directory %s", dir)
	}

	return &localStorage{
		bucket:    bucket,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		logger:    logger,
	}, bucket, nil
}

// Save writes the image and returns <urlPrefix>/<name>.
func (s *localStorage) Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := s.bucket.NewWriter(writeCtx, name, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "failed to open cover writer")
	}
	if _, err := io.Copy(w, r); err != nil {
		// a canceled context makes Close discard the partial blob
		cancel()
		if closeErr := w.Close(); closeErr != nil {
			s.logger.DebugContext(ctx, "Partial cover discarded", slog.String("key", name), slog.Any("error", closeErr))
		}

		return "", errors.Wrap(err, "failed to write cover")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "failed to flush cover")
	}

	return path.Join(s.urlPrefix, name), nil
}

// Delete removes the file behind location. A missing file is not an error.
func (s *localStorage) Delete(ctx context.Context, location string) error {
	key := strings.TrimPrefix(strings.TrimPrefix(location, s.urlPrefix), "/")
	if key == "" {
		return nil
	}

	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			s.logger.DebugContext(ctx, "Cover already removed", slog.String("key", key))

			return nil
		}

		return errors.Wrapf(err, "failed to delete cover %s", key)
	}

	return nil
}
