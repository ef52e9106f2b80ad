// Package media decides the final image reference of articles and partners
// and removes assets that are no longer referenced.
package media

import (
	"context"
	"log/slog"
	"time"

	apperrors "agridynamic/internal/errors"
	"agridynamic/internal/worker"
)

// Logical folders on the media host.
const (
	FolderArticles = "agridynamic/articles"
	FolderPartners = "agridynamic/partners"
)

const destroyTimeout = 30 * time.Second

// Resolution is the outcome of resolving an image on update.
type Resolution struct {
	URL string
	// Replaced is the previous reference when it was swapped out. The caller
	// releases it once the new reference is persisted.
	Replaced string
}

// Resolver turns a Source into a stored image reference.
type Resolver struct {
	host      Host
	inspector *Inspector
	tasks     worker.Dispatcher
	logger    *slog.Logger
}

// NewResolver creates a resolver. host may be nil when no media host is
// configured, in which case uploads fail and only direct URLs are accepted.
func NewResolver(host Host, inspector *Inspector, tasks worker.Dispatcher, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{host: host, inspector: inspector, tasks: tasks, logger: logger}
}

// ResolveCreate returns the reference for a new entity. A missing image is a
// validation error.
func (r *Resolver) ResolveCreate(ctx context.Context, folder string, src Source) (string, error) {
	switch s := src.(type) {
	case UploadedBytes:
		return r.upload(ctx, folder, s)
	case DirectURL:
		return s.Value, nil
	default:
		return "", apperrors.ErrImageRequired
	}
}

// ResolveUpdate returns the reference to store on update. Unchanged and a URL
// equal to current keep the existing reference.
func (r *Resolver) ResolveUpdate(ctx context.Context, folder, current string, src Source) (Resolution, error) {
	switch s := src.(type) {
	case UploadedBytes:
		url, err := r.upload(ctx, folder, s)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{URL: url, Replaced: current}, nil
	case DirectURL:
		if s.Value == current {
			return Resolution{URL: current}, nil
		}
		return Resolution{URL: s.Value, Replaced: current}, nil
	default:
		return Resolution{URL: current}, nil
	}
}

// Release schedules removal of ref from the media host. References the host
// did not create are ignored. Failures are logged by the worker pool.
func (r *Resolver) Release(ref string) {
	if ref == "" || r.host == nil || !r.host.Owns(ref) {
		return
	}
	host := r.host
	submitted := r.tasks.Submit("media.destroy", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, destroyTimeout)
		defer cancel()
		return host.Destroy(ctx, ref)
	})
	if !submitted {
		r.logger.Warn("orphaned media asset", slog.String("ref", ref))
	}
}

func (r *Resolver) upload(ctx context.Context, folder string, s UploadedBytes) (string, error) {
	if r.inspector != nil {
		prepared, err := r.inspector.Prepare(s)
		if err != nil {
			return "", err
		}
		s = prepared
	}
	if r.host == nil {
		return "", apperrors.ErrUploadFailed
	}
	url, err := r.host.Upload(ctx, folder, s.Data, s.ContentType)
	if err != nil {
		r.logger.Error("media upload failed", slog.String("folder", folder), slog.Any("error", err))
		return "", apperrors.ErrUploadFailed.Wrap(err)
	}
	return url, nil
}
