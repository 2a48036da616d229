package middleware

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tastechain/reviewscore/internal/domain"
)

// Metrics holds process-wide request counters.
type Metrics struct {
	Requests     atomic.Int64
	ClientErrors atomic.Int64
	ServerErrors atomic.Int64

	// total handler time in microseconds
	LatencyMicros atomic.Int64

	ModelScores     atomic.Int64
	HeuristicScores atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Requests         int64   `json:"request_count"`
	ClientErrors     int64   `json:"client_error_count"`
	ServerErrors     int64   `json:"server_error_count"`
	AvgLatencyMillis float64 `json:"avg_latency_ms"`
	ModelScores      int64   `json:"model_scores"`
	HeuristicScores  int64   `json:"heuristic_scores"`
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Requests:        m.Requests.Load(),
		ClientErrors:    m.ClientErrors.Load(),
		ServerErrors:    m.ServerErrors.Load(),
		ModelScores:     m.ModelScores.Load(),
		HeuristicScores: m.HeuristicScores.Load(),
	}
	if s.Requests > 0 {
		s.AvgLatencyMillis = float64(m.LatencyMicros.Load()) / float64(s.Requests) / 1000
	}
	return s
}

// ObserveScore counts which branch produced a confidence score.
func (m *Metrics) ObserveScore(source domain.ScoreSource) {
	if source == domain.SourceModel {
		m.ModelScores.Add(1)
		return
	}
	m.HeuristicScores.Add(1)
}

// Middleware counts requests, error classes and latency.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.Requests.Add(1)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		m.LatencyMicros.Add(time.Since(start).Microseconds())
		switch {
		case rw.statusCode >= 500:
			m.ServerErrors.Add(1)
		case rw.statusCode >= 400:
			m.ClientErrors.Add(1)
		}
	})
}
