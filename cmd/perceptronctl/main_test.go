package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"perceptron/internal/configio"
	"perceptron/internal/nn"
	"perceptron/internal/storage"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func workdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	return dir
}

func TestInitCreatesSampleOnce(t *testing.T) {
	dir := workdir(t)

	out, _, err := execute(t, "init")
	require.NoError(t, err)
	require.Contains(t, out, "Sample 'config.txt' file created with AND gate configuration.")

	data, err := os.ReadFile(filepath.Join(dir, "config.txt"))
	require.NoError(t, err)
	require.Equal(t, configio.SampleConfiguration, strings.TrimSpace(string(data)))

	out, _, err = execute(t, "init")
	require.NoError(t, err)
	require.Contains(t, out, "already exists")
}

func TestShowPrintsConfiguration(t *testing.T) {
	workdir(t)
	_, _, err := execute(t, "init")
	require.NoError(t, err)

	out, _, err := execute(t, "show")
	require.NoError(t, err)
	require.Contains(t, out, "Bias (b): -1.5\n")
	require.Contains(t, out, "Weights (w): [1, 1]\n")
	require.Contains(t, out, "Expected inputs: 2\n")
}

func TestShowMissingConfiguration(t *testing.T) {
	workdir(t)
	_, _, err := execute(t, "show", "--config", "absent.txt")
	require.ErrorIs(t, err, configio.ErrNotFound)
	require.ErrorContains(t, err, "could not load configuration")
}

func TestShowMalformedConfiguration(t *testing.T) {
	dir := workdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.txt"), []byte("abc, 1\n"), 0o644))

	_, _, err := execute(t, "show", "-c", "bad.txt")
	require.ErrorIs(t, err, configio.ErrParse)
}

func TestActivationsListsRegistry(t *testing.T) {
	workdir(t)
	out, _, err := execute(t, "activations")
	require.NoError(t, err)
	for _, name := range nn.ListActivations() {
		require.Contains(t, out, name)
	}
	require.Contains(t, out, "discrete")
	require.Contains(t, out, "continuous")
}

func TestPredictANDGate(t *testing.T) {
	workdir(t)
	_, _, err := execute(t, "init")
	require.NoError(t, err)

	cases := map[string]string{
		"0,0": "Output: 0\n",
		"0,1": "Output: 0\n",
		"1,0": "Output: 0\n",
		"1,1": "Output: 1\n",
	}
	for in, want := range cases {
		out, _, err := execute(t, "predict", in)
		require.NoError(t, err, in)
		require.Contains(t, out, "Keyboard Input: Inputs: ", in)
		require.Contains(t, out, want, in)
	}
}

func TestPredictContinuousActivation(t *testing.T) {
	workdir(t)
	_, _, err := execute(t, "init")
	require.NoError(t, err)

	out, _, err := execute(t, "predict", "--inputs", "1, 1", "--activation", "sigmoid")
	require.NoError(t, err)
	require.Contains(t, out, "'Sigmoid (0 to 1)' activation")
	require.Contains(t, out, "Output: 0.622459\n")
}

func TestPredictReportsBadInput(t *testing.T) {
	workdir(t)
	_, _, err := execute(t, "init")
	require.NoError(t, err)

	out, _, err := execute(t, "predict", "1")
	require.ErrorIs(t, err, errInputsSkipped)
	require.Contains(t, out, "Error on Keyboard Input")

	_, _, err = execute(t, "predict", "--inputs", "")
	require.ErrorIs(t, err, errInputsSkipped)

	_, _, err = execute(t, "predict", "1,1", "--activation", "softmax")
	require.ErrorIs(t, err, nn.ErrActivationNotFound)
}

func TestBatchSkipsMalformedLines(t *testing.T) {
	dir := workdir(t)
	_, _, err := execute(t, "init")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inputs.txt"), []byte("1,1\n\nfoo,1\n0,1\n"), 0o644))

	out, _, err := execute(t, "batch", "inputs.txt")
	require.NoError(t, err)
	require.Contains(t, out, "--- Processing File 'inputs.txt' with 'Step (0 or 1)' activation ---")
	require.Contains(t, out, "Line 1: Inputs: [1, 1], Output: 1\n")
	require.Contains(t, out, "Error on Line 3:")
	require.Contains(t, out, "Line 4: Inputs: [0, 1], Output: 0\n")
	require.Contains(t, out, "2 processed, 1 skipped\n")

	_, _, err = execute(t, "batch", "--file", "inputs.txt", "--strict")
	require.ErrorIs(t, err, errInputsSkipped)
}

func TestBatchRequiresFile(t *testing.T) {
	workdir(t)
	_, _, err := execute(t, "init")
	require.NoError(t, err)

	_, _, err = execute(t, "batch")
	require.ErrorContains(t, err, "no input file selected")

	_, _, err = execute(t, "batch", "missing.txt")
	require.True(t, errors.Is(err, configio.ErrNotFound), "got %v", err)
}

func TestSettingsFileSelectsConfiguration(t *testing.T) {
	dir := workdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "or.txt"), []byte("-0.5, 1, 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "perceptron.yaml"), []byte("config_path: or.txt\nactivation: sign\n"), 0o644))

	out, _, err := execute(t, "predict", "0,1")
	require.NoError(t, err)
	require.Contains(t, out, "'Sign (-1 or 1)' activation")
	require.Contains(t, out, "Output: 1\n")

	out, _, err = execute(t, "predict", "0,0")
	require.NoError(t, err)
	require.Contains(t, out, "Output: -1\n")
}

func TestStorePutWithMemoryBackend(t *testing.T) {
	workdir(t)
	out, stderr, err := execute(t, "store", "put", "and", "--store", "memory", "--line", "-1.5, 1, 1")
	require.NoError(t, err)
	require.Contains(t, out, "stored and: -1.5, 1, 1")
	require.Contains(t, stderr, "does not persist")

	_, _, err = execute(t, "store", "put", "bad", "--store", "memory", "--line", "1")
	require.ErrorIs(t, err, configio.ErrParse)

	_, _, err = execute(t, "store", "get", "and", "--store", "memory")
	require.ErrorIs(t, err, configio.ErrNotFound)

	_, _, err = execute(t, "store", "delete", "and", "--store", "memory")
	require.ErrorIs(t, err, configio.ErrNotFound)
	require.ErrorContains(t, err, `configuration record "and"`)
}

func TestStoreUnknownBackend(t *testing.T) {
	workdir(t)
	_, _, err := execute(t, "store", "list", "--store", "tape")
	require.ErrorIs(t, err, storage.ErrUnsupportedStore)
}

func TestInvalidLogLevel(t *testing.T) {
	workdir(t)
	_, _, err := execute(t, "activations", "--log-level", "loud")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	workdir(t)
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "perceptronctl version "+Version)
}
