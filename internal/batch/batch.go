package batch

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"perceptron/internal/configio"
	"perceptron/internal/nn"
	"perceptron/internal/perceptron"
)

const maxLineBytes = 1 << 20

// ErrEmptyInput reports an interactive entry with no text.
var ErrEmptyInput = errors.New("keyboard input field is empty")

// LineResult is the outcome for one input vector. Exactly one of Output and
// Err is meaningful.
type LineResult struct {
	Line   int
	Label  string
	Inputs []float64
	Output perceptron.Output
	Err    error
}

func (r LineResult) OK() bool {
	return r.Err == nil
}

type Report struct {
	SessionID  string
	Source     string
	Activation nn.Activation
	Results    []LineResult
	Elapsed    time.Duration
}

func (r Report) Processed() int {
	n := 0
	for _, res := range r.Results {
		if res.OK() {
			n++
		}
	}
	return n
}

func (r Report) Failed() int {
	return len(r.Results) - r.Processed()
}

// Evaluator runs input vectors through one perceptron snapshot. A failure on
// one vector is recorded against that vector and never stops the rest.
type Evaluator struct {
	perceptron *perceptron.Perceptron
	logger     logrus.FieldLogger
	predict    func([]float64, nn.Activation) (perceptron.Output, error)
	newID      func() string
	now        func() time.Time
}

func NewEvaluator(p *perceptron.Perceptron, logger logrus.FieldLogger) *Evaluator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Evaluator{
		perceptron: p,
		logger:     logger,
		predict:    p.Predict,
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

// EvaluateInput evaluates a single comma-separated vector typed by a user.
func (e *Evaluator) EvaluateInput(text string, act nn.Activation) (Report, error) {
	rep, err := e.begin("Keyboard", act)
	if err != nil {
		return rep, err
	}
	start := e.now()

	res := LineResult{Label: "Keyboard Input"}
	inputs, err := configio.ParseValues("keyboard input", text)
	switch {
	case err != nil && isBlank(text):
		res.Err = ErrEmptyInput
	case err != nil:
		res.Err = err
	default:
		res = e.evaluate(0, res.Label, inputs, act)
	}
	rep.Results = append(rep.Results, res)
	e.finish(&rep, start)
	return rep, nil
}

// EvaluateFile evaluates every non-blank line of the file at path.
func (e *Evaluator) EvaluateFile(ctx context.Context, path string, act nn.Activation) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Report{}, fmt.Errorf("%w: input file %q", configio.ErrNotFound, path)
		}
		return Report{}, fmt.Errorf("%w: opening input file %q: %w", configio.ErrIOFailure, path, err)
	}
	defer f.Close()
	return e.EvaluateReader(ctx, fmt.Sprintf("File '%s'", filepath.Base(path)), f, act)
}

// EvaluateReader evaluates each non-blank line of r as one input vector.
// Lines are numbered from 1 including blank ones. A line longer than
// maxLineBytes is recorded as a parse failure and skipped. The returned error
// is non-nil only when reading stops early; the report then holds the lines
// read so far.
func (e *Evaluator) EvaluateReader(ctx context.Context, source string, r io.Reader, act nn.Activation) (rep Report, err error) {
	rep, err = e.begin(source, act)
	if err != nil {
		return rep, err
	}
	start := e.now()
	defer e.finish(&rep, start)

	br := bufio.NewReader(r)
	lineNo := 0
	for {
		raw, tooLong, err := readLine(br)
		if errors.Is(err, io.EOF) {
			return rep, nil
		}
		if err != nil {
			return rep, fmt.Errorf("%w: reading %s: %w", configio.ErrIOFailure, source, err)
		}
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		lineNo++
		label := fmt.Sprintf("Line %d", lineNo)
		if tooLong {
			rep.Results = append(rep.Results, LineResult{Line: lineNo, Label: label,
				Err: fmt.Errorf("%w: line %d: line too long (limit %s)", configio.ErrParse, lineNo, humanize.IBytes(maxLineBytes))})
			continue
		}
		text := string(raw)
		if isBlank(text) {
			continue
		}
		inputs, err := configio.ParseValues(fmt.Sprintf("line %d", lineNo), text)
		if err != nil {
			rep.Results = append(rep.Results, LineResult{Line: lineNo, Label: label, Err: err})
			continue
		}
		rep.Results = append(rep.Results, e.evaluate(lineNo, label, inputs, act))
	}
}

// readLine returns the next line without its terminator. A line over
// maxLineBytes is consumed up to its newline and returned as tooLong with no
// content. io.EOF is returned only when nothing is left to read.
func readLine(br *bufio.Reader) (line []byte, tooLong bool, err error) {
	read := 0
	for {
		chunk, err := br.ReadSlice('\n')
		read += len(chunk)
		if !tooLong {
			line = append(line, chunk...)
			if len(line) > maxLineBytes+len("\r\n") {
				tooLong, line = true, nil
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) && read > 0 {
			err = nil
		}
		if err != nil {
			return nil, false, err
		}
		line = bytes.TrimSuffix(line, []byte("\n"))
		line = bytes.TrimSuffix(line, []byte("\r"))
		if len(line) > maxLineBytes {
			tooLong, line = true, nil
		}
		return line, tooLong, nil
	}
}

func (e *Evaluator) begin(source string, act nn.Activation) (Report, error) {
	rep := Report{SessionID: e.newID(), Source: source, Activation: act}
	if !act.Valid() {
		return rep, fmt.Errorf("%w: invalid activation function selected: %v", perceptron.ErrTypeMismatch, act)
	}
	return rep, nil
}

func (e *Evaluator) finish(rep *Report, start time.Time) {
	rep.Elapsed = e.now().Sub(start)
	log := e.logger.WithFields(logrus.Fields{
		"session":    rep.SessionID,
		"source":     rep.Source,
		"activation": rep.Activation.String(),
	})
	for _, res := range rep.Results {
		if !res.OK() {
			log.WithField("line", res.Label).WithError(res.Err).Warn("input skipped")
		}
	}
	log.WithFields(logrus.Fields{
		"processed": rep.Processed(),
		"failed":    rep.Failed(),
		"elapsed":   rep.Elapsed.String(),
	}).Info("inputs evaluated")
}

// evaluate converts a panic during prediction into that vector's error.
func (e *Evaluator) evaluate(line int, label string, inputs []float64, act nn.Activation) (res LineResult) {
	res = LineResult{Line: line, Label: label, Inputs: inputs}
	defer func() {
		if r := recover(); r != nil {
			res.Output = perceptron.Output{}
			res.Err = fmt.Errorf("unexpected error: %v", r)
		}
	}()
	out, err := e.predict(inputs, act)
	if err != nil {
		res.Err = err
		return res
	}
	res.Output = out
	return res
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
