package storage

import (
	"context"

	"perceptron/internal/model"
)

// Store keeps named configuration records. Records are replaced wholesale on
// save; a stored record is never edited in place.
type Store interface {
	Init(ctx context.Context) error
	SaveConfiguration(ctx context.Context, record model.ConfigurationRecord) error
	GetConfiguration(ctx context.Context, name string) (model.ConfigurationRecord, bool, error)
	ListConfigurations(ctx context.Context) ([]model.ConfigurationRecord, error)
	DeleteConfiguration(ctx context.Context, name string) error
}
