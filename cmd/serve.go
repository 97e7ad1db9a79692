package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"appetizer/internal/catalog"
	"appetizer/internal/config"
	"appetizer/internal/history"
	"appetizer/internal/inspire"
	"appetizer/internal/model"
	"appetizer/internal/planner"
)

var servePort int

// serverEnv bundles the request-scoped dependencies of the web API.
// confirmMu serializes history writes so concurrent submissions of the
// same week cannot both pass the duplicate check.
type serverEnv struct {
	cfg       *config.Config
	cache     *catalog.Cache
	hist      history.Store
	inspirer  *inspire.Generator
	confirmMu sync.Mutex
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the meal planning API on a local port",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		hist, err := openHistory(ctx)
		if err != nil {
			return err
		}
		defer hist.Close() //nolint:errcheck

		env := &serverEnv{
			cfg:      cfg,
			cache:    catalog.NewCache(cfg.Catalog.Path, cfg.Catalog.Sheet),
			hist:     hist,
			inspirer: inspire.New(time.Now().UnixNano()),
		}

		// Fail fast on an unreadable spreadsheet before binding the port.
		if _, err := env.cache.Get(); err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env),
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

// newRouter builds the API routes. Split out for httptest coverage.
func newRouter(env *serverEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/recipes", env.handleRecipes)
		r.Get("/history", env.handleHistory)
		r.Post("/plan", env.handlePlan)
		r.Post("/plan/confirm", env.handleConfirm)
		r.Post("/inspire", env.handleInspire)
	})

	return r
}

func (env *serverEnv) handleRecipes(w http.ResponseWriter, r *http.Request) {
	cat, err := env.cache.Get()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipes": cat.Recipes()})
}

func (env *serverEnv) handleHistory(w http.ResponseWriter, r *http.Request) {
	window := env.cfg.Planner.WindowWeeks
	if q := r.URL.Query().Get("window"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			http.Error(w, `{"error":"invalid window"}`, http.StatusBadRequest)
			return
		}
		window = n
	}

	entries, err := env.hist.Recent(r.Context(), window)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"window_weeks": window, "entries": entries})
}

func (env *serverEnv) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planner.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.WindowWeeks == 0 {
		req.WindowWeeks = env.cfg.Planner.WindowWeeks
	}
	if req.Servings == 0 {
		req.Servings = env.cfg.Planner.DefaultServings
	}

	cat, err := env.cache.Get()
	if err != nil {
		writeError(w, err)
		return
	}

	plan, err := planner.Plan(r.Context(), cat, env.hist, req, env.cfg.Scorer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (env *serverEnv) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekID string           `json:"week_id"`
		Plan   model.WeeklyPlan `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if len(req.Plan.Assignments) == 0 {
		http.Error(w, `{"error":"plan has no assignments"}`, http.StatusBadRequest)
		return
	}

	week := currentWeek()
	if req.WeekID != "" {
		parsed, err := model.ParseWeekID(req.WeekID)
		if err != nil {
			http.Error(w, `{"error":"invalid week_id"}`, http.StatusBadRequest)
			return
		}
		week = parsed
	}

	env.confirmMu.Lock()
	defer env.confirmMu.Unlock()

	if err := planner.Confirm(r.Context(), env.hist, &req.Plan, week); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (env *serverEnv) handleInspire(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WindowWeeks int `json:"window_weeks"`
	}
	// An empty body is fine; defaults apply.
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.WindowWeeks <= 0 {
		req.WindowWeeks = env.cfg.Planner.WindowWeeks
	}

	cat, err := env.cache.Get()
	if err != nil {
		writeError(w, err)
		return
	}

	entries, err := env.hist.Recent(r.Context(), req.WindowWeeks)
	if err != nil {
		writeError(w, err)
		return
	}
	var recent []model.Recipe
	for _, e := range entries {
		if rec, err := cat.Lookup(e.RecipeID); err == nil {
			recent = append(recent, rec)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"idea": env.inspirer.Idea(cat, recent)})
}

// writeError maps domain errors to HTTP statuses. Nothing is swallowed:
// every failure is logged and reported to the caller.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var malformed *model.MalformedCatalogError
	var notFound *model.NotFoundError
	var dupWeek *model.DuplicateWeekError
	var insufficient *model.InsufficientCandidatesError
	switch {
	case errors.As(err, &malformed):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &dupWeek):
		status = http.StatusConflict
	case errors.As(err, &insufficient):
		status = http.StatusUnprocessableEntity
	}

	zap.L().Error("request failed", zap.Int("status", status), zap.Error(err))
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		zap.L().Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
