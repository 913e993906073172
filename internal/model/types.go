package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// ConfigurationRecord is a named, stored copy of a one-line perceptron
// configuration. Weights keep their positional order.
type ConfigurationRecord struct {
	VersionedRecord
	Name      string    `json:"name"`
	Bias      float64   `json:"bias"`
	Weights   []float64 `json:"weights"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InputCount is the input vector length a perceptron built from r expects.
func (r ConfigurationRecord) InputCount() int {
	return len(r.Weights)
}
