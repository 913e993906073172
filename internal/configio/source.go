package configio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"perceptron/internal/model"
)

// Source is a readable text origin for a configuration line.
type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// RecordGetter is the read side of a configuration record store.
type RecordGetter interface {
	GetConfiguration(ctx context.Context, name string) (model.ConfigurationRecord, bool, error)
}

type fileSource struct {
	path string
}

// FileSource reads the configuration from a file on disk.
func FileSource(path string) Source {
	return fileSource{path: path}
}

func (s fileSource) Name() string {
	return s.path
}

func (s fileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: configuration file %q", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("%w: opening configuration file %q: %w", ErrIOFailure, s.path, err)
	}
	return f, nil
}

type readerSource struct {
	name string
	r    io.Reader
}

// ReaderSource wraps an already open reader. The reader is not closed.
func ReaderSource(name string, r io.Reader) Source {
	return readerSource{name: name, r: r}
}

func (s readerSource) Name() string {
	return s.name
}

func (s readerSource) Open(_ context.Context) (io.ReadCloser, error) {
	if s.r == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.name)
	}
	return io.NopCloser(s.r), nil
}

type storeSource struct {
	store RecordGetter
	name  string
}

// StoreSource reads a named record from a configuration store. The record is
// rendered back to the one-line format so it passes the same validation as a
// file.
func StoreSource(store RecordGetter, name string) Source {
	return storeSource{store: store, name: name}
}

func (s storeSource) Name() string {
	return "store:" + s.name
}

func (s storeSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: no configuration store for %q", ErrIOFailure, s.name)
	}
	record, ok, err := s.store.GetConfiguration(ctx, s.name)
	if err != nil {
		return nil, fmt.Errorf("%w: loading configuration record %q: %w", ErrIOFailure, s.name, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: configuration record %q", ErrNotFound, s.name)
	}
	return io.NopCloser(strings.NewReader(FormatConfiguration(record.Bias, record.Weights))), nil
}
