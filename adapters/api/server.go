package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"goanova/app"
	"goanova/domain/anova"
	"goanova/domain/core"
	"goanova/domain/dataset"
	"goanova/internal"
	"goanova/internal/render"
	"goanova/ports"
)

// Server exposes analyses over HTTP: submit grouped observations or a full
// frame, read back result tables, and fetch rendered reports for stored
// runs.
type Server struct {
	router       *gin.Engine
	service      *app.AnalysisService
	runs         ports.RunRepository // nil disables run endpoints
	logger       *internal.Logger
	defaultAlpha float64 // applied when a request omits alpha
}

// NewServer wires routes.
func NewServer(service *app.AnalysisService, runs ports.RunRepository, logger *internal.Logger, defaultAlpha float64) *Server {
	s := &Server{
		router:       gin.New(),
		service:      service,
		runs:         runs,
		logger:       logger,
		defaultAlpha: defaultAlpha,
	}
	s.router.Use(gin.Recovery())

	api := s.router.Group("/api")
	api.POST("/oneway", s.handleOneWay)
	api.POST("/factorial", s.handleFactorial)
	api.GET("/runs", s.handleListRuns)
	api.GET("/runs/:id", s.handleGetRun)
	api.GET("/runs/:id/report", s.handleRunReport)
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return s
}

// Run starts the server.
func (s *Server) Run(addr string) error {
	s.logger.Info("listening on %s", addr)
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// oneWayRequest is the POST /api/oneway payload.
type oneWayRequest struct {
	Alpha        float64             `json:"alpha"`
	Response     string              `json:"response"`
	Factor       string              `json:"factor"`
	Observations []anova.Observation `json:"observations" binding:"required"`
}

func (s *Server) handleOneWay(c *gin.Context) {
	var req oneWayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Alpha == 0 {
		req.Alpha = s.defaultAlpha
	}
	if req.Response == "" {
		req.Response = "response"
	}
	if req.Factor == "" {
		req.Factor = "group"
	}

	frame, err := frameFromObservations(req.Response, req.Factor, req.Observations)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.service.RunOneWay(c.Request.Context(), app.OneWayRequest{
		Reader:   app.NewStaticReader(frame),
		Response: core.ColumnKey(req.Response),
		Factor:   core.ColumnKey(req.Factor),
		Alpha:    req.Alpha,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsSampleError(err) {
			status = http.StatusUnprocessableEntity
		}
		s.logger.Warn("oneway analysis failed: %v", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// factorialRequest is the POST /api/factorial payload.
type factorialRequest struct {
	Alpha        float64          `json:"alpha"`
	Columns      []dataset.Column `json:"columns" binding:"required"`
	Response     string           `json:"response" binding:"required"`
	Factors      []string         `json:"factors" binding:"required"`
	Covariates   []string         `json:"covariates"`
	Interactions [][2]string      `json:"interactions"`
}

func (s *Server) handleFactorial(c *gin.Context) {
	var req factorialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Alpha == 0 {
		req.Alpha = s.defaultAlpha
	}

	frame, err := dataset.NewFrame(req.Columns)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spec := ports.ModelSpec{Response: core.ColumnKey(req.Response)}
	for _, f := range req.Factors {
		spec.Factors = append(spec.Factors, core.ColumnKey(f))
	}
	for _, cv := range req.Covariates {
		spec.Covariates = append(spec.Covariates, core.ColumnKey(cv))
	}
	for _, in := range req.Interactions {
		spec.Interactions = append(spec.Interactions, [2]core.ColumnKey{core.ColumnKey(in[0]), core.ColumnKey(in[1])})
	}

	result, err := s.service.RunFactorial(c.Request.Context(), app.FactorialRequest{
		Reader: app.NewStaticReader(frame),
		Spec:   spec,
		Alpha:  req.Alpha,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsSampleError(err) {
			status = http.StatusUnprocessableEntity
		}
		s.logger.Warn("factorial analysis failed: %v", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleListRuns(c *gin.Context) {
	if s.runs == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "run persistence is not configured"})
		return
	}
	summaries, err := s.runs.ListRuns(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (s *Server) handleGetRun(c *gin.Context) {
	if s.runs == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "run persistence is not configured"})
		return
	}
	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	run, err := s.runs.GetRun(c.Request.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleRunReport(c *gin.Context) {
	if s.runs == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "run persistence is not configured"})
		return
	}
	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	run, err := s.runs.GetRun(c.Request.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var manifest anova.RunManifest
	var table anova.Table
	var comparisons []anova.PairwiseComparison
	if err := decodeInto(run.Manifest.V, &manifest); err == nil {
		_ = decodeInto(run.Table.V, &table)
		_ = decodeInto(run.Comparisons.V, &comparisons)
	} else {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8",
		render.ReportHTML(&manifest, table, comparisons, nil))
}

// decodeInto re-types a jsonb payload into a domain struct.
func decodeInto(v interface{}, dst interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// frameFromObservations lays grouped observations out as a two-column frame.
func frameFromObservations(response, factor string, observations []anova.Observation) (*dataset.Frame, error) {
	values := make([]float64, len(observations))
	labels := make([]string, len(observations))
	for i, obs := range observations {
		values[i] = obs.Value
		labels[i] = obs.Group.String()
	}
	return dataset.NewFrame([]dataset.Column{
		{Key: core.ColumnKey(response), Type: dataset.TypeNumeric, Numeric: values},
		{Key: core.ColumnKey(factor), Type: dataset.TypeCategorical, Labels: labels},
	})
}
