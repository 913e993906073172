package configio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ReadConfiguration loads a (bias, weights) pair from the first line of src.
// Either a complete record is returned or an error wrapping ErrNotFound,
// ErrParse or ErrIOFailure.
func ReadConfiguration(ctx context.Context, src Source) (float64, []float64, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrIOFailure) {
			return 0, nil, err
		}
		return 0, nil, fmt.Errorf("%w: unexpected error reading configuration %q: %w", ErrIOFailure, src.Name(), err)
	}
	defer rc.Close()

	line, err := readFirstLine(rc)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: unexpected error reading configuration %q: %w", ErrIOFailure, src.Name(), err)
	}
	return ParseConfiguration(src.Name(), line)
}

// ParseConfiguration parses "bias, w1, ..., wN". source names the origin in
// error messages.
func ParseConfiguration(source, line string) (float64, []float64, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, nil, fmt.Errorf("%w: %s: empty configuration", ErrParse, source)
	}

	tokens := strings.Split(line, ",")
	if len(tokens) < 2 {
		return 0, nil, fmt.Errorf("%w: %s: configuration must contain at least bias and one weight, separated by commas", ErrParse, source)
	}

	values, err := parseTokens(source, tokens)
	if err != nil {
		return 0, nil, err
	}

	bias := values[0]
	weights := values[1:]
	if len(weights) == 0 {
		return 0, nil, fmt.Errorf("%w: %s: no weights found", ErrParse, source)
	}
	return bias, weights, nil
}

// ParseValues parses one comma-separated list of decimals, such as an input
// vector typed by a user or read from a batch file line.
func ParseValues(source, line string) ([]float64, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, fmt.Errorf("%w: %s: empty input", ErrParse, source)
	}
	return parseTokens(source, strings.Split(line, ","))
}

func parseTokens(source string, tokens []string) ([]float64, error) {
	values := make([]float64, len(tokens))
	for i, token := range tokens {
		token = strings.TrimSpace(token)
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: value %d %q is not a number: %w", ErrParse, source, i+1, token, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s: value %d %q is not finite", ErrParse, source, i+1, token)
		}
		values[i] = v
	}
	return values, nil
}

func readFirstLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return line, nil
}
