package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"campus-booking/internal/domain/reservation"
	"campus-booking/internal/pkg/metrics"
	"campus-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultContentType  = "application/octet-stream"
	maxFilenameLength   = 100
	maxParallelUploads  = 4
	documentsRootFolder = "reservations"
)

type FileUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

type AttachOptions struct {
	Timeout  time.Duration
	MaxBytes int64
}

type DocumentAttacher struct {
	uploader shared.Uploader
	opts     AttachOptions
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewDocumentAttacher(uploader shared.Uploader, opts AttachOptions, m *metrics.Metrics, logger *slog.Logger) *DocumentAttacher {
	return &DocumentAttacher{
		uploader: uploader,
		opts:     opts,
		metrics:  m,
		logger:   logger,
	}
}

// Validate rejects file sets that could never be attached, so callers can
// fail before any upload starts.
func (a *DocumentAttacher) Validate(files []FileUpload) error {
	for i, f := range files {
		if strings.TrimSpace(f.Name) == "" {
			return &reservation.ValidationError{Field: fmt.Sprintf("files[%d]", i), Reason: "name is required"}
		}
		if a.opts.MaxBytes > 0 && int64(len(f.Data)) > a.opts.MaxBytes {
			return &reservation.ValidationError{
				Field:  fmt.Sprintf("files[%d]", i),
				Reason: fmt.Sprintf("%s exceeds %d bytes", f.Name, a.opts.MaxBytes),
			}
		}
	}
	return nil
}

// Attach uploads every file under the reservation's folder and returns the
// references in submission order. Any single failure fails the whole call.
func (a *DocumentAttacher) Attach(ctx context.Context, reservationID uuid.UUID, files []FileUpload) ([]reservation.Document, error) {
	if len(files) == 0 {
		return []reservation.Document{}, nil
	}
	if err := a.Validate(files); err != nil {
		return nil, err
	}

	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	folder := path.Join(documentsRootFolder, reservationID.String())
	docs := make([]reservation.Document, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)
	for i, f := range files {
		g.Go(func() error {
			contentType := f.ContentType
			if contentType == "" {
				contentType = defaultContentType
			}
			filename := fmt.Sprintf("%d-%s", i, sanitizeFilename(f.Name))

			url, err := a.uploader.Store(gctx, f.Data, folder, filename, contentType)
			if err != nil {
				a.metrics.Uploads.WithLabelValues("failure").Inc()
				return &shared.UploadError{Name: f.Name, Err: err}
			}
			a.metrics.Uploads.WithLabelValues("success").Inc()
			docs[i] = reservation.Document{Name: f.Name, URL: url, Type: contentType}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		a.logger.Error("document upload failed",
			"reservation_id", reservationID,
			"files", len(files),
			"error", err,
		)
		return nil, err
	}
	return docs, nil
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if len(out) > maxFilenameLength {
		out = out[len(out)-maxFilenameLength:]
	}
	if out == "" {
		return "file"
	}
	return out
}
