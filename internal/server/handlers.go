package server

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"perceptron/internal/batch"
	"perceptron/internal/configio"
	"perceptron/internal/metrics"
	"perceptron/internal/nn"
	"perceptron/internal/perceptron"
	"perceptron/internal/session"
)

type activationView struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Range string `json:"range"`
	Kind  string `json:"kind"`
}

type configurationView struct {
	Source         string    `json:"source"`
	Bias           float64   `json:"bias"`
	Weights        []float64 `json:"weights"`
	ExpectedInputs int       `json:"expected_inputs"`
	LoadedAt       time.Time `json:"loaded_at"`
	Warnings       []string  `json:"warnings,omitempty"`
}

type predictRequest struct {
	Inputs     any    `json:"inputs"`
	Activation string `json:"activation"`
}

type predictResponse struct {
	Inputs     []float64 `json:"inputs"`
	Z          *float64  `json:"z"`
	Output     *float64  `json:"output"`
	Display    string    `json:"display"`
	Kind       string    `json:"kind"`
	Activation string    `json:"activation"`
}

type batchRequest struct {
	Lines      string `json:"lines"`
	Activation string `json:"activation"`
}

type batchLine struct {
	Line    int       `json:"line"`
	Inputs  []float64 `json:"inputs,omitempty"`
	Output  *float64  `json:"output,omitempty"`
	Display string    `json:"display,omitempty"`
	Error   string    `json:"error,omitempty"`
}

type batchResponse struct {
	SessionID  string      `json:"session_id"`
	Activation string      `json:"activation"`
	Processed  int         `json:"processed"`
	Failed     int         `json:"failed"`
	Results    []batchLine `json:"results"`
}

type errorResponse struct {
	Error    string `json:"error"`
	Given    *int   `json:"given,omitempty"`
	Expected *int   `json:"expected,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	_, err := s.holder.Current()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "loaded": err == nil})
}

func (s *Server) handleActivations(c *gin.Context) {
	names := nn.ListActivations()
	out := make([]activationView, 0, len(names))
	for _, name := range names {
		id, err := nn.ParseActivation(name)
		if err != nil {
			continue
		}
		spec, err := nn.GetActivation(id)
		if err != nil {
			continue
		}
		out = append(out, activationView{Name: spec.Name, Label: spec.Label, Range: spec.Range, Kind: spec.Kind.String()})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleConfiguration(c *gin.Context) {
	snap, err := s.holder.Current()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(snap))
}

func (s *Server) handleReload(c *gin.Context) {
	if s.source == nil {
		s.fail(c, errors.New("no configuration source configured"))
		return
	}
	snap, err := s.holder.Reload(c.Request.Context(), s.source)
	metrics.ObserveReload(err)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "could not load configuration: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, viewOf(snap))
}

func (s *Server) handlePredict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, &badRequest{err})
		return
	}
	snap, err := s.holder.Current()
	if err != nil {
		s.fail(c, err)
		return
	}
	act, err := s.activation(req.Activation)
	if err != nil {
		s.fail(c, err)
		return
	}
	inputs, err := perceptron.ToVector(req.Inputs)
	if err != nil {
		metrics.ObservePrediction(act.String(), err)
		s.fail(c, err)
		return
	}
	out, err := snap.Perceptron.Predict(inputs, act)
	metrics.ObservePrediction(act.String(), err)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, predictResponse{
		Inputs:     inputs,
		Z:          finite(out.Z),
		Output:     finite(out.Value),
		Display:    out.Format(),
		Kind:       out.Kind.String(),
		Activation: act.String(),
	})
}

func (s *Server) handleBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, &badRequest{err})
		return
	}
	snap, err := s.holder.Current()
	if err != nil {
		s.fail(c, err)
		return
	}
	act, err := s.activation(req.Activation)
	if err != nil {
		s.fail(c, err)
		return
	}

	logger := s.logger.WithField("request_id", c.GetString(requestIDKey))
	rep, err := batch.NewEvaluator(snap.Perceptron, logger).
		EvaluateReader(c.Request.Context(), "request", strings.NewReader(req.Lines), act)
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := batchResponse{
		SessionID:  rep.SessionID,
		Activation: act.String(),
		Processed:  rep.Processed(),
		Failed:     rep.Failed(),
		Results:    make([]batchLine, 0, len(rep.Results)),
	}
	for _, res := range rep.Results {
		metrics.ObservePrediction(act.String(), res.Err)
		line := batchLine{Line: res.Line, Inputs: res.Inputs}
		if res.Err != nil {
			line.Error = res.Err.Error()
		} else {
			line.Output = finite(res.Output.Value)
			line.Display = res.Output.Format()
		}
		resp.Results = append(resp.Results, line)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) activation(name string) (nn.Activation, error) {
	if strings.TrimSpace(name) == "" {
		return s.defaultActivation, nil
	}
	return nn.ParseActivation(name)
}

type badRequest struct {
	err error
}

func (e *badRequest) Error() string { return "invalid request body: " + e.err.Error() }
func (e *badRequest) Unwrap() error { return e.err }

func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	resp := errorResponse{Error: err.Error()}
	var dimErr *perceptron.DimensionError
	if errors.As(err, &dimErr) {
		resp.Given = &dimErr.Given
		resp.Expected = &dimErr.Expected
	}
	c.JSON(statusFor(err), resp)
}

func statusFor(err error) int {
	var br *badRequest
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotLoaded):
		return http.StatusServiceUnavailable
	case errors.Is(err, nn.ErrActivationNotFound),
		errors.Is(err, perceptron.ErrTypeMismatch),
		errors.Is(err, perceptron.ErrShapeMismatch),
		errors.Is(err, perceptron.ErrDimensionMismatch),
		errors.Is(err, perceptron.ErrNonFinite),
		errors.Is(err, configio.ErrParse):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func viewOf(snap *session.Snapshot) configurationView {
	return configurationView{
		Source:         snap.Source,
		Bias:           snap.Perceptron.Bias(),
		Weights:        snap.Perceptron.Weights(),
		ExpectedInputs: snap.Perceptron.InputCount(),
		LoadedAt:       snap.LoadedAt,
		Warnings:       snap.Perceptron.Warnings(),
	}
}

// finite returns nil for values JSON cannot carry.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
