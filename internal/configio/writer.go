package configio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// SampleConfiguration is a perceptron that computes logical AND under the
// step activation.
const SampleConfiguration = "-1.5, 1, 1"

// FormatConfiguration renders the one-line format, using the shortest
// representation that parses back to the same values.
func FormatConfiguration(bias float64, weights []float64) string {
	parts := make([]string, 0, len(weights)+1)
	parts = append(parts, strconv.FormatFloat(bias, 'g', -1, 64))
	for _, w := range weights {
		parts = append(parts, strconv.FormatFloat(w, 'g', -1, 64))
	}
	return strings.Join(parts, ", ")
}

func WriteConfiguration(path string, bias float64, weights []float64) error {
	if len(weights) == 0 {
		return fmt.Errorf("%w: %s: no weights found", ErrParse, path)
	}
	if err := os.WriteFile(path, []byte(FormatConfiguration(bias, weights)+"\n"), 0o644); err != nil {
		return fmt.Errorf("%w: writing configuration %q: %w", ErrIOFailure, path, err)
	}
	return nil
}

// EnsureSampleConfiguration writes SampleConfiguration to path unless a file
// already exists there. It reports whether a file was created.
func EnsureSampleConfiguration(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("%w: checking configuration %q: %w", ErrIOFailure, path, err)
	}
	if err := os.WriteFile(path, []byte(SampleConfiguration+"\n"), 0o644); err != nil {
		return false, fmt.Errorf("%w: could not create the sample configuration %q: %w", ErrIOFailure, path, err)
	}
	return true, nil
}
