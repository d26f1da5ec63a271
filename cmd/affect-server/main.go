package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"affect/internal/affection"
	"affect/internal/config"
	"affect/internal/domain"
	"affect/internal/mqtt"
	"affect/internal/pipeline"
	"affect/internal/sentiment"
	"affect/internal/store"
)

type server struct {
	cfg      config.AffectServerConfig
	detector *pipeline.Detector
	tracker  *affection.Tracker
	store    *store.Store
	pub      *mqtt.Publisher
	logger   *slog.Logger
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.LoadAffectServerConfig()

	overlay, err := config.LoadLexiconOverlay(cfg.LexiconOverlayPath)
	if err != nil {
		logger.Error("lexicon overlay", "error", err)
		os.Exit(1)
	}
	scorer := sentiment.NewScorerWithOverlay(overlay)

	srv := &server{
		cfg:      cfg,
		detector: pipeline.NewDetector(scorer, nil, logger),
		tracker:  affection.NewTracker(),
		logger:   logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.StoreEnabled() {
		st, err := store.New(ctx, cfg.DBDSN)
		if err != nil {
			logger.Error("store init", "error", err)
			os.Exit(1)
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			logger.Error("store migrate", "error", err)
			os.Exit(1)
		}
		srv.store = st
	}

	if cfg.MQTTEnabled() {
		pub := mqtt.NewPublisher(mqtt.Config{
			BrokerURL:   cfg.MQTTBrokerURL,
			ClientID:    cfg.MQTTClientID,
			Username:    cfg.MQTTUsername,
			Password:    cfg.MQTTPassword,
			TopicPrefix: cfg.MQTTTopicPrefix,
		}, logger)
		if err := pub.Start(ctx); err != nil {
			logger.Error("mqtt connect", "error", err)
			os.Exit(1)
		}
		srv.pub = pub
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":           true,
			"store":        srv.store != nil,
			"mqtt":         srv.pub != nil,
			"interactions": sentiment.Interactions(),
		})
	})
	r.Post("/v1/sentiment/analyze", srv.handleAnalyze)
	r.Post("/v1/sentiment/explain", srv.handleExplain)
	r.Get("/v1/fallback/stats", srv.handleFallbackStats)
	r.Post("/v1/fallback/stats/reset", srv.handleFallbackReset)
	r.Get("/v1/affection/{session_id}", srv.handleAffection)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("affect server started", "addr", cfg.HTTPAddr, "store", cfg.StoreEnabled(), "mqtt", cfg.MQTTEnabled())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("received shutdown signal")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}

func (s *server) handleAnalyze(w http.ResponseWriter, req *http.Request) {
	var in domain.AnalyzeRequest
	if err := decodeJSONBody(req, s.cfg.MaxBodyBytes, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	if strings.TrimSpace(in.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "text is required"})
		return
	}

	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	turns := in.History
	if s.store != nil {
		if err := s.store.EnsureSession(req.Context(), sessionID); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "session init failed"})
			return
		}
		if len(turns) == 0 {
			stored, err := s.store.RecentTurns(req.Context(), sessionID, s.cfg.HistoryLimit)
			if err != nil {
				s.logger.Warn("load history", "session_id", sessionID, "error", err)
			} else {
				turns = stored
			}
		}
	}

	fb, detail := s.detector.AnalyzeDetailed(in.Text, turns)
	result := fb.Result

	s.persistAndPublish(req.Context(), sessionID, result, detail, fb.Level)

	writeJSON(w, http.StatusOK, domain.AnalyzeResponse{
		SessionID:     sessionID,
		Result:        result,
		FallbackLevel: fb.Level,
		Strategy:      fb.Strategy,
		ErrorKind:     fb.ErrorKind,
	})
}

func (s *server) handleExplain(w http.ResponseWriter, req *http.Request) {
	var in domain.AnalyzeRequest
	if err := decodeJSONBody(req, s.cfg.MaxBodyBytes, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	if strings.TrimSpace(in.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "text is required"})
		return
	}

	res, err := s.detector.AnalyzeWithContext(in.Text, in.History)
	if err != nil {
		writeJSON(w, http.StatusOK, domain.ExplainResponse{
			SessionID:   in.SessionID,
			Explanation: fmt.Sprintf("degraded: %v", err),
		})
		return
	}
	writeJSON(w, http.StatusOK, domain.ExplainResponse{
		SessionID:   in.SessionID,
		Explanation: pipeline.Explain(res),
	})
}

func (s *server) handleFallbackStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.detector.FallbackStats())
}

func (s *server) handleFallbackReset(w http.ResponseWriter, _ *http.Request) {
	s.detector.ResetFallbackStats()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *server) handleAffection(w http.ResponseWriter, req *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]any{"error": "store not configured"})
		return
	}
	sessionID := chi.URLParam(req, "session_id")

	state, err := s.store.AffectionState(req.Context(), sessionID)
	if errors.Is(err, store.ErrSessionNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "session not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "affection lookup failed"})
		return
	}

	hourly, daily, err := s.store.UsageCounts(req.Context(), sessionID, time.Now())
	if err != nil {
		s.logger.Warn("usage counts", "session_id", sessionID, "error", err)
	}

	writeJSON(w, http.StatusOK, domain.AffectionResponse{
		SessionID:   sessionID,
		Level:       state.Level,
		Mood:        state.Mood,
		UpdatedAt:   state.UpdatedAt,
		HourlyUsage: hourly,
		DailyUsage:  daily,
	})
}

func (s *server) persistAndPublish(ctx context.Context, sessionID string, result sentiment.Result, detail *pipeline.ContextResult, level int) {
	now := time.Now()

	emotion := ""
	intensityScore := 0.0
	if detail != nil {
		emotion = detail.Context.DominantEmotion
		intensityScore = detail.Intensity.Score
	}

	var state affection.State
	if s.store != nil {
		var err error
		state, err = s.store.AffectionState(ctx, sessionID)
		if errors.Is(err, store.ErrSessionNotFound) {
			state = affection.NewState(sessionID)
		} else if err != nil {
			s.logger.Warn("load affection state", "session_id", sessionID, "error", err)
			state = affection.NewState(sessionID)
		}
		state = s.tracker.Update(state, result, now)

		if err := s.store.SaveAffectionState(ctx, state); err != nil {
			s.logger.Warn("save affection state", "session_id", sessionID, "error", err)
		}
		if err := s.store.RecordTurn(ctx, sessionID, result, emotion, intensityScore); err != nil {
			s.logger.Warn("record turn", "session_id", sessionID, "error", err)
		}
		if err := s.store.IncrementUsage(ctx, sessionID, now); err != nil {
			s.logger.Warn("increment usage", "session_id", sessionID, "error", err)
		}
	} else {
		state = s.tracker.Update(affection.NewState(sessionID), result, now)
	}

	if s.pub == nil {
		return
	}
	if err := s.pub.PublishAffectionUpdate(domain.AffectionUpdate{
		SessionID:   sessionID,
		Level:       state.Level,
		Mood:        state.Mood,
		Delta:       result.AffectionDelta,
		Score:       result.Score,
		Interaction: string(result.Interaction),
		TS:          now,
	}); err != nil {
		s.logger.Warn("publish affection update", "session_id", sessionID, "error", err)
	}
	if err := s.pub.PublishAnalysis(domain.AnalysisEvent{
		SessionID:     sessionID,
		Result:        result,
		Emotion:       emotion,
		Intensity:     intensityScore,
		FallbackLevel: level,
		TS:            now,
	}); err != nil {
		s.logger.Warn("publish analysis event", "session_id", sessionID, "error", err)
	}
}

func decodeJSONBody(req *http.Request, maxBytes int64, out any) error {
	defer req.Body.Close()
	data, err := io.ReadAll(io.LimitReader(req.Body, maxBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return fmt.Errorf("request body too large")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			return fmt.Errorf("invalid json: multiple JSON values")
		}
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
