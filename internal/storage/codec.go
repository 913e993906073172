package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"perceptron/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var (
	ErrVersionMismatch = errors.New("record version mismatch")
	ErrInvalidRecord   = errors.New("invalid configuration record")
)

// NewRecord stamps name, bias and weights with the current versions.
func NewRecord(name string, bias float64, weights []float64) model.ConfigurationRecord {
	w := make([]float64, len(weights))
	copy(w, weights)
	return model.ConfigurationRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		Name:            name,
		Bias:            bias,
		Weights:         w,
	}
}

func EncodeConfiguration(r model.ConfigurationRecord) ([]byte, error) {
	if err := validateRecord(r); err != nil {
		return nil, err
	}
	return json.Marshal(r)
}

func DecodeConfiguration(data []byte) (model.ConfigurationRecord, error) {
	var record model.ConfigurationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.ConfigurationRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.ConfigurationRecord{}, err
	}
	return record, nil
}

func validateRecord(r model.ConfigurationRecord) error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRecord)
	}
	if len(r.Weights) == 0 {
		return fmt.Errorf("%w: %s: no weights found", ErrInvalidRecord, r.Name)
	}
	return checkVersion(r.VersionedRecord)
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return fmt.Errorf("%w: schema=%d codec=%d", ErrVersionMismatch, v.SchemaVersion, v.CodecVersion)
	}
	return nil
}
