// Package server 提供推荐 HTTP API。
//
//	GET /recommendations?user_id=<steam id 或自定义 URL 名>
//	GET /healthz
//	GET /metrics
package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rushteam/playful/core"
	"github.com/rushteam/playful/metrics"
	"github.com/rushteam/playful/pkg/logging"
	"github.com/rushteam/playful/recommend"
)

// Server 把用户解析、已拥有物品获取与推荐组合串起来。
type Server struct {
	router         *chi.Mux
	composer       *recommend.Composer
	provider       core.OwnedItemsProvider
	resolver       core.UserResolver
	requestTimeout time.Duration
}

type Options func(*Server)

// WithResolver 设置用户 ID 解析器（例如 Steam 自定义 URL）。不设置时 user_id 原样使用。
func WithResolver(r core.UserResolver) Options {
	return func(s *Server) {
		s.resolver = r
	}
}

// WithRequestTimeout 设置单个推荐请求的超时，覆盖上游调用。
func WithRequestTimeout(d time.Duration) Options {
	return func(s *Server) {
		s.requestTimeout = d
	}
}

func New(composer *recommend.Composer, provider core.OwnedItemsProvider, opts ...Options) *Server {
	r := chi.NewRouter()
	s := &Server{
		router:         r,
		composer:       composer,
		provider:       provider,
		requestTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/recommendations", s.handleRecommendations)
	r.Get("/api/v1/recommendations", s.handleRecommendations)

	return s
}

// Handler 返回 http.Handler。
func (s *Server) Handler() http.Handler {
	return s.router
}

func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		ctx := logging.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		r = r.WithContext(ctx)

		defer func() {
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			elapsed := time.Since(start)
			metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
			metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

			logging.Ctx(ctx).Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", elapsed).
				Str("remote", r.RemoteAddr).
				Msg("access")
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"items":  s.composer.Items(),
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("user_id")
	if input == "" {
		writeError(w, http.StatusBadRequest, core.ErrorCodeInvalidInput, "user_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	userID := input
	if s.resolver != nil {
		resolved, err := s.resolver.ResolveUserID(ctx, input)
		if err != nil {
			writeError(w, http.StatusBadRequest, core.ErrorCodeInvalidInput, err.Error())
			return
		}
		userID = resolved
	}

	// 获取失败与没有已拥有物品同样处理：返回 none
	owned, err := s.provider.OwnedItems(ctx, userID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("owned items unavailable")
		owned = nil
	}

	rctx := core.NewRecommendContext(userID, owned)
	res, err := s.composer.RecommendFor(ctx, rctx)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("user_id", userID).Msg("recommend failed")
		writeError(w, http.StatusInternalServerError, core.ErrorCodeInternalError, "recommendation failed")
		return
	}

	writeJSON(w, http.StatusOK, newResponse(userID, res))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Err(err).Msg("failed to encode response")
	}
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	writeJSON(w, status, body)
}
