package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rezonia/efactura-reconciler/internal/attachment"
	"github.com/rezonia/efactura-reconciler/internal/model"
	"github.com/rezonia/efactura-reconciler/internal/parser/ubl"
	"github.com/rezonia/efactura-reconciler/internal/processor"
	"github.com/rezonia/efactura-reconciler/internal/schema"
	"github.com/rezonia/efactura-reconciler/internal/summary"
)

// HeaderRequestID carries the request identifier in both directions
const HeaderRequestID = "X-Request-ID"

const (
	requestIDKey    = "request_id"
	processTimeout  = 2 * time.Minute
	shutdownTimeout = 10 * time.Second
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *processor.Pipeline
	log      zerolog.Logger
}

// Option configures the server
type Option func(*Server)

// WithPipeline sets the processing pipeline
func WithPipeline(p *processor.Pipeline) Option {
	return func(s *Server) {
		s.pipeline = p
	}
}

// WithLogger sets the request logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// NewServer creates a new API server
func NewServer(config *Config, opts ...Option) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config: config,
		router: gin.New(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pipeline == nil {
		s.pipeline = processor.NewPipeline(processor.WithLogger(s.log))
	}

	s.router.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/product-summary", s.handleProductSummary)
		v1.POST("/summary", s.handleSummary)
		v1.POST("/info", s.handleInfo)
		v1.GET("/schema", s.handleSchema)
	}
}

// requestLogger tags every request with an ID and logs it once handled
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)

		start := time.Now()
		c.Next()

		event := s.log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = s.log.Error()
		}
		event.
			Str("request_id", id).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Int("size", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Msg("request handled")
	}
}

// Run serves until ctx is canceled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("address", s.config.Address).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// readBody returns the request body, answering 400 itself when it is unusable
func readBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return nil, false
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return nil, false
	}
	return body, true
}

// filterFromQuery reads invoice_number, supplier, start_date and end_date
func filterFromQuery(c *gin.Context) (summary.Filter, error) {
	f := summary.Filter{
		InvoiceNumber: c.Query("invoice_number"),
		Supplier:      c.Query("supplier"),
	}
	for param, dst := range map[string]**time.Time{"start_date": &f.Start, "end_date": &f.End} {
		v := c.Query(param)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return f, model.NewValidationError(param, v, "date", "expected YYYY-MM-DD")
		}
		*dst = &t
	}
	return f, f.Validate()
}

// process runs the pipeline over the body and splits failures from successes.
// It answers the request itself and returns false on a client error.
func (s *Server) process(c *gin.Context, parseOnly bool) ([]*processor.Result, []string, bool) {
	body, ok := readBody(c)
	if !ok {
		return nil, nil, false
	}
	filter, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid filter", Details: err.Error()})
		return nil, nil, false
	}
	if format := processor.DetectFormat(body); format != processor.FormatXML && format != processor.FormatZIP {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unsupported file format", Details: format.String()})
		return nil, nil, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), processTimeout)
	defer cancel()

	results := s.pipeline.ProcessBytes(ctx, "request", body, processor.Request{Filter: filter, ParseOnly: parseOnly})

	var processed []*processor.Result
	var failures []string
	for _, r := range results {
		if r.Error != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", r.Source, r.Error))
			continue
		}
		processed = append(processed, r)
	}
	if len(processed) == 0 && len(failures) > 0 {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:    "no document could be processed",
			Details:  failures[0],
			Warnings: failures[1:],
		})
		return nil, nil, false
	}
	return processed, failures, true
}

func (s *Server) handleProductSummary(c *gin.Context) {
	results, warnings, ok := s.process(c, false)
	if !ok {
		return
	}

	resp := ProductSummaryResponse{
		Documents: make([]DocumentReport, 0, len(results)),
		Rows:      processor.ProductSummaryRows(results),
		Warnings:  warnings,
	}
	for _, r := range results {
		rep := r.Report
		resp.Documents = append(resp.Documents, DocumentReport{
			Source:      r.Source,
			DocumentID:  rep.DocumentID,
			Kind:        string(rep.Kind),
			BaseType:    rep.BaseType.String(),
			Rows:        len(rep.Rows),
			Absorbed:    len(rep.Absorbed),
			Skipped:     len(rep.Skipped),
			PayableDiff: rep.PayableDiff.StringFixed(2),
			Mismatch:    rep.Mismatch,
			Warnings:    r.Warnings,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSummary(c *gin.Context) {
	results, _, ok := s.process(c, true)
	if !ok {
		return
	}

	rows, skipped := summary.BuildRows(processor.Documents(results))
	if len(rows) == 0 && len(skipped) > 0 {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: skipped[0].Error()})
		return
	}
	c.JSON(http.StatusOK, SummaryResponse{Rows: rows})
}

func (s *Server) handleInfo(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	format := processor.DetectFormat(body)
	resp := InfoResponse{Format: format.String(), Size: len(body)}

	switch format {
	case processor.FormatXML:
		outline, err := ubl.Inspect(body)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid XML", Details: err.Error()})
			return
		}
		resp.Outline = outline

		doc, err := s.pipeline.Parse(c.Request.Context(), body)
		if err != nil {
			// an outline of an unsupported document is still useful
			break
		}
		resp.Kind = string(doc.Kind)
		resp.DocumentID = doc.ID
		resp.Supplier = doc.SupplierName()
		if resp.Attachments, err = attachment.Inspect(doc); err != nil {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid attachment", Details: err.Error()})
			return
		}

	case processor.FormatZIP:
		entries, err := processor.ReadZip(body)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid archive", Details: err.Error()})
			return
		}
		for _, e := range entries {
			resp.Entries = append(resp.Entries, e.Name)
		}

	case processor.FormatPDF:
		pages, err := attachment.PageCount(body)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid PDF", Details: err.Error()})
			return
		}
		resp.Pages = pages

	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unsupported file format"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSchema(c *gin.Context) {
	c.JSON(http.StatusOK, schema.Schemas())
}
