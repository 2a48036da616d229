package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tastechain/reviewscore/internal/domain"
	"github.com/tastechain/reviewscore/internal/llm"
	"github.com/tastechain/reviewscore/internal/store"
)

type memScoreStore struct {
	mu      sync.Mutex
	records []domain.ScoreRecord
	pingErr error
}

func (m *memScoreStore) Create(ctx context.Context, r *domain.ScoreRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *r)
	return nil
}

func (m *memScoreStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == id {
			r := m.records[i]
			return &r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memScoreStore) ListRecent(ctx context.Context, opts domain.ScoreListOpts) ([]domain.ScoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ScoreRecord
	for _, r := range m.records {
		if opts.RestaurantName == "" || r.RestaurantName == opts.RestaurantName {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memScoreStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (m *memScoreStore) Ping(ctx context.Context) error { return m.pingErr }

const validBody = `{
  "reviewData": {
    "review": "Amazing pizza, crust was perfect and toppings fresh and delicious tonight",
    "rating": 4, "foodQuality": 4, "service": 4, "atmosphere": 4, "value": 4
  },
  "orderData": {"items": [{"name": "Pizza", "quantity": 1, "price": 20}], "total": 20},
  "userData": {"selectedCategories": ["italian"]},
  "restaurantData": {"name": "Luigi's", "cuisine": "Italian", "priceRange": "moderate"}
}`

func newTestApp(t *testing.T, deps Deps) *App {
	t.Helper()
	return NewApp(deps, zap.NewNop())
}

func do(app *App, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestCalculateConfidence_Heuristic(t *testing.T) {
	app := newTestApp(t, Deps{})

	rec := do(app, http.MethodPost, "/api/reviews/calculate-confidence", validBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, float64(96), body["confidenceScore"])
	assert.Equal(t, "heuristic", body["source"])
	assert.NotContains(t, body, "id")

	breakdown := body["breakdown"].(map[string]any)
	spending := breakdown["spendingContext"].(map[string]any)
	assert.Equal(t, float64(20), spending["expected"])
	assert.Equal(t, float64(1), spending["ratio"])
	assert.Equal(t, "Expected Range", spending["bonus"])
	assert.Equal(t, "High", breakdown["contextMatch"].(map[string]any)["matchQuality"])
	assert.Equal(t, "Medium", breakdown["detailLevel"].(map[string]any)["level"])
	assert.Equal(t, "italian", breakdown["preferenceMatch"].(map[string]any)["userPreferences"])

	assert.Equal(t, int64(1), app.Metrics.Snapshot().HeuristicScores)
}

func TestCalculateConfidence_ModelAndLedger(t *testing.T) {
	client := llm.NewMockClient()
	client.ScoreResponse = "73"
	st := &memScoreStore{}

	app := newTestApp(t, Deps{LLMClient: client, ScoreStore: st, ScoresAPIKey: "k"})

	rec := do(app, http.MethodPost, "/api/reviews/calculate-confidence", validBody)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, float64(73), body["confidenceScore"])
	assert.Equal(t, "model", body["source"])
	id, ok := body["id"].(string)
	require.True(t, ok)

	rec = do(app, http.MethodGet, "/v1/scores/"+id, "", "Authorization", "Bearer k")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(73), decode(t, rec)["confidence_score"])

	rec = do(app, http.MethodGet, "/v1/scores?restaurant=Luigi's", "", "Authorization", "Bearer k")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["count"])

	rec = do(app, http.MethodGet, "/v1/scores/"+id, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCalculateConfidence_Errors(t *testing.T) {
	app := newTestApp(t, Deps{})

	t.Run("malformed json", func(t *testing.T) {
		rec := do(app, http.MethodPost, "/api/reviews/calculate-confidence", `{"reviewData":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid request body", decode(t, rec)["message"])
	})

	t.Run("missing total", func(t *testing.T) {
		body := bytes.Replace([]byte(validBody), []byte(`, "total": 20`), nil, 1)
		rec := do(app, http.MethodPost, "/api/reviews/calculate-confidence", string(body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "total is required", decode(t, rec)["message"])
	})

	t.Run("missing sections", func(t *testing.T) {
		rec := do(app, http.MethodPost, "/api/reviews/calculate-confidence", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "reviewData is required", decode(t, rec)["message"])
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := do(app, http.MethodGet, "/api/reviews/calculate-confidence", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestCalculateConfidence_ConfigurationError(t *testing.T) {
	_, err := llm.NewClient(context.Background(), "openai", llm.PlaceholderAPIKey)
	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))

	app := newTestApp(t, Deps{LLMClient: &llm.UnconfiguredClient{Err: cfgErr}})

	rec := do(app, http.MethodPost, "/api/reviews/calculate-confidence", validBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "OpenAI API key not configured", body["message"])
	assert.NotEmpty(t, body["instructions"])
}

func TestSummary(t *testing.T) {
	client := llm.NewMockClient()
	client.SummarizeError = errors.New("upstream down")
	app := newTestApp(t, Deps{LLMClient: client})

	rec := do(app, http.MethodPost, "/api/reviews/summary",
		`{"restaurantName":"Luigi's","reviews":[{"rating":4,"review":"Good"},{"rating":5,"review":"Great"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, float64(2), body["reviewCount"])
	assert.Equal(t, "4.5", body["averageRating"])
	assert.Contains(t, body["summary"], "Based on 2 customer reviews, Luigi's has received an average rating of 4.5 out of 5 stars.")

	rec = do(app, http.MethodPost, "/api/reviews/summary", `{"restaurantName":"Luigi's","reviews":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScores_LedgerDisabled(t *testing.T) {
	app := newTestApp(t, Deps{})

	rec := do(app, http.MethodGet, "/v1/scores", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(app, http.MethodGet, "/v1/scores/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(app, http.MethodGet, "/v1/scores/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestScores_NotFoundAndBadLimit(t *testing.T) {
	app := newTestApp(t, Deps{ScoreStore: &memScoreStore{}})

	rec := do(app, http.MethodGet, "/v1/scores/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(app, http.MethodGet, "/v1/scores?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(app, http.MethodGet, "/v1/scores?limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decode(t, rec)["count"])
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t, Deps{Provider: "mock", References: []domain.ReferenceReview{{Text: "ok", Score: 8}}})

	rec := do(app, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["references"])
	assert.Equal(t, false, body["ledger"])

	rec = do(app, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode(t, rec), "requests")

	unhealthy := newTestApp(t, Deps{ScoreStore: &memScoreStore{pingErr: errors.New("down")}})
	rec = do(unhealthy, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRetentionWiring(t *testing.T) {
	app := newTestApp(t, Deps{})
	assert.Nil(t, app.Retention)

	app = newTestApp(t, Deps{ScoreRetention: time.Hour})
	assert.Nil(t, app.Retention, "no store, nothing to prune")

	app = newTestApp(t, Deps{ScoreStore: &memScoreStore{}, ScoreRetention: time.Hour})
	require.NotNil(t, app.Retention)
	deleted, err := app.Retention.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestRequestIDHeader(t *testing.T) {
	app := newTestApp(t, Deps{})
	rec := do(app, http.MethodGet, "/health", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
