// Package upload validates and stores batches of product images.
package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/bookbright/electryohype/internal/metrics"
)

const DefaultMaxSize = 5 << 20

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrNoFiles         = errors.New("no files provided")
)

var allowedTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// FileError names the file that made a batch fail.
type FileError struct {
	Filename string
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// File is one uploaded file read into memory.
type File struct {
	Name string
	Data []byte
}

// Asset describes a stored file.
type Asset struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Filename    string `json:"filename"`
	Size        int    `json:"size"`
	ContentType string `json:"contentType"`
}

type Uploader struct {
	store       AssetStore
	maxSize     int
	concurrency int
}

func NewUploader(store AssetStore, maxSize int) *Uploader {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Uploader{store: store, maxSize: maxSize, concurrency: 4}
}

func (u *Uploader) MaxSize() int {
	return u.maxSize
}

// UploadBatch stores all files or none. Every file is validated before
// anything is written; if any store call fails, files already stored by
// this batch are deleted again.
func (u *Uploader) UploadBatch(ctx context.Context, files []File) ([]Asset, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	types := make([]string, len(files))
	for i, f := range files {
		ct, err := u.validate(f)
		if err != nil {
			metrics.RecordUploads("rejected", len(files))
			return nil, err
		}
		types[i] = ct
	}

	assets := make([]Asset, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for i, f := range files {
		g.Go(func() error {
			key, err := u.store.Put(gctx, f.Name, f.Data, types[i])
			if err != nil {
				return &FileError{Filename: f.Name, Err: err}
			}
			assets[i] = Asset{
				URL:         u.store.URL(key),
				Key:         key,
				Filename:    f.Name,
				Size:        len(f.Data),
				ContentType: types[i],
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		u.rollback(context.WithoutCancel(ctx), assets)
		metrics.RecordUploads("failed", len(files))
		return nil, err
	}

	metrics.RecordUploads("stored", len(files))
	slog.Info("uploaded image batch", "files", len(files))
	return assets, nil
}

func (u *Uploader) validate(f File) (string, error) {
	if len(f.Data) == 0 {
		return "", &FileError{Filename: f.Name, Err: fmt.Errorf("%w: empty file", ErrUnsupportedType)}
	}
	if len(f.Data) > u.maxSize {
		return "", &FileError{
			Filename: f.Name,
			Err:      fmt.Errorf("%w: exceeds the %d byte limit", ErrFileTooLarge, u.maxSize),
		}
	}

	m := mimetype.Detect(f.Data)
	for _, allowed := range allowedTypes {
		if m.Is(allowed) {
			return allowed, nil
		}
	}
	return "", &FileError{Filename: f.Name, Err: fmt.Errorf("%w: %s", ErrUnsupportedType, m.String())}
}

func (u *Uploader) rollback(ctx context.Context, assets []Asset) {
	for _, a := range assets {
		if a.Key == "" {
			continue
		}
		if err := u.store.Delete(ctx, a.Key); err != nil {
			slog.Error("failed to roll back uploaded file", "key", a.Key, "error", err)
		}
	}
}
