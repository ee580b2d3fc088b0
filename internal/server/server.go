// Package server exposes the ratio analysis over a JSON HTTP API.
package server

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/iwvelando/finance-ratios/internal/analysis"
	"github.com/iwvelando/finance-ratios/internal/benchmark"
	"github.com/iwvelando/finance-ratios/internal/dataset"
	"github.com/iwvelando/finance-ratios/internal/ratio"
	"github.com/iwvelando/finance-ratios/pkg/constants"
	"github.com/iwvelando/finance-ratios/pkg/output"
	"github.com/iwvelando/finance-ratios/pkg/validation"
	"go.uber.org/zap"
)

// Options configure the handler.
type Options struct {
	MaxUploadSize int64
	Version       string
	// Benchmarks is used when an upload carries no benchmark file.
	Benchmarks ratio.BenchmarkTable
	// Cache holds analyses between requests; nil keeps them in memory.
	Cache  analysis.Cache
	Engine ratio.Options
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	benchmarks    ratio.BenchmarkTable
	cache         analysis.Cache
	engine        ratio.Options
	now           func() time.Time
}

// NewHandler constructs the HTTP handler that serves the analysis API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	cache := opts.Cache
	if cache == nil {
		cache = analysis.NewMemoryCache()
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		benchmarks:    opts.Benchmarks,
		cache:         cache,
		engine:        opts.Engine,
		now:           time.Now,
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/analyze", h.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/companies", h.handleListCompanies).Methods(http.MethodGet)
	api.HandleFunc("/companies/{id}", h.handleGetCompany).Methods(http.MethodGet)
	api.HandleFunc("/companies/{id}", h.handleDeleteCompany).Methods(http.MethodDelete)
	api.HandleFunc("/companies/{id}/report", h.handleCompanyReport).Methods(http.MethodGet)
	api.HandleFunc("/version", h.handleVersion).Methods(http.MethodGet)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": http.StatusText(http.StatusMethodNotAllowed)})
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": http.StatusText(http.StatusNotFound)})
	})

	return r
}

type analyzeResponse struct {
	analysis.Report
	Warnings []string `json:"warnings,omitempty"`
	Duration string   `json:"duration"`
}

type companiesResponse struct {
	Companies []analysis.Summary `json:"companies"`
}

func (h *handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalyze"
	start := time.Now()

	engineOptions, clean, err := h.requestOptions(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	dataFile, _, err := r.FormFile("data")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing data file", op)
		return
	}
	defer h.closeUpload(dataFile, op)

	table, err := dataset.Read(dataFile)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read data: %v", err), op)
		return
	}

	benchmarks, err := h.uploadedBenchmarks(r, op)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	quality := dataset.Quality(table)
	if clean {
		table, quality.Actions = dataset.Clean(h.logger, table)
	}

	engine := ratio.NewEngine(h.logger, engineOptions)
	analyzer := analysis.NewAnalyzer(h.logger, engine, benchmarks, h.cache)
	report, err := analyzer.AnalyzeAll(table)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("analysis failed: %v", err), op)
		return
	}
	report.Quality = &quality

	warnings := benchmark.Check(benchmarks)
	warnings = append(warnings, validation.ValidateBenchmarkCoverage(industries(table), benchmarks)...)

	elapsed := time.Since(start)
	h.logger.Info("analysis computed",
		zap.String("op", op),
		zap.String("run", report.RunID),
		zap.Int("companies", len(report.Companies)),
		zap.Int("failures", len(report.Failures)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, analyzeResponse{
		Report:   report,
		Warnings: warnings,
		Duration: elapsed.String(),
	})
}

// requestOptions reads the scale, extended and clean query parameters,
// falling back to the handler's engine options.
func (h *handler) requestOptions(r *http.Request) (ratio.Options, bool, error) {
	opts := h.engine
	query := r.URL.Query()

	if raw := query.Get("scale"); raw != "" {
		scale, err := ratio.ParsePeriodScale(raw)
		if err != nil {
			return opts, false, err
		}
		opts.Scale = scale
	}
	if raw := query.Get("extended"); raw != "" {
		extended, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, false, fmt.Errorf("invalid extended parameter %q", raw)
		}
		opts.Extended = extended
	}

	clean := false
	if raw := query.Get("clean"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, false, fmt.Errorf("invalid clean parameter %q", raw)
		}
		clean = parsed
	}
	return opts, clean, nil
}

func (h *handler) uploadedBenchmarks(r *http.Request, op string) (ratio.BenchmarkTable, error) {
	file, header, err := r.FormFile("benchmarks")
	if errors.Is(err, http.ErrMissingFile) {
		if len(h.benchmarks) == 0 {
			return nil, errors.New("missing benchmarks file and no server benchmarks configured")
		}
		return h.benchmarks, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read benchmarks upload: %w", err)
	}
	defer h.closeUpload(file, op)

	format := benchmark.FormatJSON
	if filepath.Ext(header.Filename) != "" {
		if format, err = benchmark.FormatForPath(header.Filename); err != nil {
			return nil, err
		}
	}

	table, err := benchmark.Read(file, format)
	if err != nil {
		return nil, fmt.Errorf("failed to read benchmarks: %w", err)
	}
	return table, nil
}

func (h *handler) closeUpload(file multipart.File, op string) {
	if err := file.Close(); err != nil {
		h.logger.Warn("failed to close uploaded file",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func industries(t *dataset.Table) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range t.Rows() {
		if !seen[row.Industry] {
			seen[row.Industry] = true
			out = append(out, row.Industry)
		}
	}
	return out
}

func (h *handler) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	results, err := h.cache.List()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to list analyses: %v", err), "server.handleListCompanies")
		return
	}

	summaries := make([]analysis.Summary, 0, len(results))
	for _, result := range results {
		summaries = append(summaries, result.Summary())
	}
	h.writeJSON(w, http.StatusOK, companiesResponse{Companies: summaries})
}

// cachedCompany writes a 404 or 500 and returns false when the company's
// analysis cannot be loaded.
func (h *handler) cachedCompany(w http.ResponseWriter, r *http.Request, op string) (analysis.CompanyAnalysis, bool) {
	id := mux.Vars(r)["id"]
	result, ok, err := h.cache.Get(id)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to load analysis: %v", err), op)
		return analysis.CompanyAnalysis{}, false
	}
	if !ok {
		h.respondErrorWithOp(w, http.StatusNotFound, fmt.Sprintf("company %s has not been analyzed", id), op)
		return analysis.CompanyAnalysis{}, false
	}
	return result, true
}

func (h *handler) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	result, ok := h.cachedCompany(w, r, "server.handleGetCompany")
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteCompany"
	id := mux.Vars(r)["id"]

	err := h.cache.Delete(id)
	if errors.Is(err, analysis.ErrNotCached) {
		h.respondErrorWithOp(w, http.StatusNotFound, fmt.Sprintf("company %s has not been analyzed", id), op)
		return
	}
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to delete analysis: %v", err), op)
		return
	}

	h.logger.Info("analysis deleted", zap.String("op", op), zap.String("company", id))
	h.writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (h *handler) handleCompanyReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompanyReport"

	format := r.URL.Query().Get("format")
	if format == "" {
		format = constants.OutputFormatMarkdown
	}
	if format != constants.OutputFormatMarkdown && format != constants.OutputFormatHTML {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("unsupported report format %q: expected markdown or html", format), op)
		return
	}

	result, ok := h.cachedCompany(w, r, op)
	if !ok {
		return
	}
	report := output.CompanyReport(result, analysis.Report{GeneratedAt: h.now()})

	if format == constants.OutputFormatMarkdown {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(output.Markdown(report, output.DefaultOptions()))
		return
	}

	page, err := output.HTML(report, output.DefaultOptions())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}
