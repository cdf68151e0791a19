// Package webui exposes the derived report over HTTP for the dashboard front
// end. The core pipeline stays presentation-free; this layer only loads,
// normalizes, aggregates, and serializes. Every endpoint answers even when
// the data file is missing — sections carry their own status so the front end
// can render placeholders.
//
// Routes:
//
//	GET /healthz                          → liveness
//	GET /api/report                       → full render pass
//	GET /api/overview                     → headline metrics
//	GET /api/channels                     → channel distribution
//	GET /api/channels/{channel}/sources   → source distribution within one channel
//	GET /api/countries | /api/industries | /api/stages
//	    /api/company-types | /api/product-types | /api/account-status
//	GET /api/summary/key-countries        → key-country summary table
//	GET /api/wordcloud?field=NAME         → word frequencies for one text field
//	GET /api/records?country=&channel=&status=&funding=
//	GET /api/export.csv?country=&channel=&status=&funding=
package webui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pitchboard/internal/config"
	"pitchboard/internal/loader"
	"pitchboard/internal/metrics"
	pcsv "pitchboard/internal/parser/csv"
	"pitchboard/internal/report"
	"pitchboard/internal/table"
	"pitchboard/internal/transform"
)

// Server wires the pipeline to an HTTP router.
type Server struct {
	cfg    *config.Config
	loader *loader.Loader
	chain  transform.Chain
	log    *zap.Logger
	router chi.Router
}

// NewServer constructs a Server with all routes registered.
func NewServer(cfg *config.Config, l *loader.Loader, chain transform.Chain, log *zap.Logger) *Server {
	s := &Server{cfg: cfg, loader: l, chain: chain, log: log}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe starts the HTTP server on the configured address.
func (s *Server) ListenAndServe() error {
	s.log.Info("listening", zap.String("addr", s.cfg.Server.Addr))
	return http.ListenAndServe(s.cfg.Server.Addr, s.router)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/report", s.handleReport)
		r.Get("/overview", s.handleOverview)
		r.Get("/channels", s.sectionHandler(func(rep *report.Report) any { return rep.Channels }))
		r.Get("/channels/{channel}/sources", s.handleChannelSources)
		r.Get("/countries", s.sectionHandler(func(rep *report.Report) any { return rep.Countries }))
		r.Get("/industries", s.sectionHandler(func(rep *report.Report) any { return rep.Industries }))
		r.Get("/stages", s.sectionHandler(func(rep *report.Report) any { return rep.Stages }))
		r.Get("/company-types", s.sectionHandler(func(rep *report.Report) any { return rep.CompanyTypes }))
		r.Get("/product-types", s.sectionHandler(func(rep *report.Report) any { return rep.ProductTypes }))
		r.Get("/account-status", s.sectionHandler(func(rep *report.Report) any { return rep.AccountStatus }))
		r.Get("/summary/key-countries", s.sectionHandler(func(rep *report.Report) any { return rep.KeyCountries }))
		r.Get("/wordcloud", s.handleWordCloud)
		r.Get("/records", s.handleRecords)
		r.Get("/export.csv", s.handleExport)
	})
	return r
}

// requestLogger tags each request with a render-pass ID and logs its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Header().Set("X-Request-Id", id)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
		)
	})
}

// render is one load+normalize pass. The returned message carries the
// loader's recovered-problem notice, if any.
func (s *Server) render(r *http.Request) (*table.Table, string, error) {
	res, err := s.loader.Load(r.Context(), s.cfg.Dataset.Ref())
	if err != nil {
		return nil, "", err
	}
	start := time.Now()
	t := s.chain.Apply(res.Table)
	metrics.RecordStep("normalize", nil, time.Since(start))
	return t, res.Message, nil
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	t, msg, err := s.render(r)
	if err != nil {
		s.serverError(w, err)
		return
	}
	rep := report.Build(t, s.cfg)
	rep.Message = msg
	s.writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	t, _, err := s.render(r)
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report.Build(t, s.cfg).Overview)
}

// sectionHandler builds the report and serializes one section of it. The
// whole report is cheap once the table is cached, and reusing Build keeps
// section semantics in exactly one place.
func (s *Server) sectionHandler(pick func(*report.Report) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, _, err := s.render(r)
		if err != nil {
			s.serverError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, pick(report.Build(t, s.cfg)))
	}
}

func (s *Server) handleChannelSources(w http.ResponseWriter, r *http.Request) {
	t, _, err := s.render(r)
	if err != nil {
		s.serverError(w, err)
		return
	}
	channel := chi.URLParam(r, "channel")
	sub := report.Filters{Channels: []string{channel}}.Apply(t, s.cfg.Columns)
	s.writeJSON(w, http.StatusOK, report.SourceBreakdown(sub, s.cfg))
}

func (s *Server) handleWordCloud(w http.ResponseWriter, r *http.Request) {
	t, _, err := s.render(r)
	if err != nil {
		s.serverError(w, err)
		return
	}
	field := r.URL.Query().Get("field")
	for _, sec := range report.Build(t, s.cfg).WordClouds {
		if sec.Column == field {
			s.writeJSON(w, http.StatusOK, sec)
			return
		}
	}
	s.writeJSON(w, http.StatusNotFound, map[string]string{
		"error": fmt.Sprintf("unknown text field %q", field),
	})
}

// recordsResponse lists the filtered rows in column order.
type recordsResponse struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Total   int        `json:"total"`
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	t, _, err := s.render(r)
	if err != nil {
		s.serverError(w, err)
		return
	}
	sub := report.Listing(filtersFromQuery(r).Apply(t, s.cfg.Columns), s.cfg.Columns)
	resp := recordsResponse{Columns: sub.Columns(), Total: sub.Len(), Rows: make([][]string, 0, sub.Len())}
	for _, rec := range sub.Rows() {
		row := make([]string, len(resp.Columns))
		for i, c := range resp.Columns {
			row[i], _ = rec.String(c)
		}
		resp.Rows = append(resp.Rows, row)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	t, _, err := s.render(r)
	if err != nil {
		s.serverError(w, err)
		return
	}
	sub := filtersFromQuery(r).Apply(t, s.cfg.Columns)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="filtered_pitch_data.csv"`)
	if err := pcsv.Write(w, sub); err != nil {
		// Headers are already out; all we can do is log.
		s.log.Error("export write", zap.Error(err))
	}
}

// filtersFromQuery reads the multi-valued filter params. Each may repeat:
// ?country=France&country=Japan.
func filtersFromQuery(r *http.Request) report.Filters {
	q := r.URL.Query()
	return report.Filters{
		Countries:      q["country"],
		Channels:       q["channel"],
		ResponseStatus: q["status"],
		Funding:        q["funding"],
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", zap.Error(err))
	}
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.log.Error("render", zap.Error(err))
	s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
