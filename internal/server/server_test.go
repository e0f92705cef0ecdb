package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-hub/travel-api/internal/config"
	"github.com/wayfarer-hub/travel-api/internal/infrastructure/memory"
	"github.com/wayfarer-hub/travel-api/internal/review/application"
	"github.com/wayfarer-hub/travel-api/internal/review/domain"
)

const testSecret = "test-secret"

type envelope struct {
	Success    bool                    `json:"success"`
	Data       json.RawMessage         `json:"data"`
	Pagination *application.Pagination `json:"pagination"`
	Stats      *domain.Stats           `json:"stats"`
	Error      string                  `json:"error"`
	Message    string                  `json:"message"`
	Details    []domain.FieldError     `json:"details"`
}

type testServer struct {
	t       *testing.T
	repo    *memory.ReviewRepository
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	repo := memory.NewReviewRepository()
	srv := New(Options{
		Config: config.Config{
			MaxPageLimit:   100,
			RequestTimeout: time.Second,
			AllowedOrigins: []string{"*"},
			JWT:            config.JWTConfig{Secret: []byte(testSecret), AdminRole: "admin"},
		},
		Logger: zerolog.Nop(),
		Repo:   repo,
	})
	return &testServer{t: t, repo: repo, handler: srv.Router()}
}

func signToken(t *testing.T, subject string, claims authClaims) string {
	t.Helper()
	claims.Subject = subject
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func (ts *testServer) adminToken() string {
	return signToken(ts.t, "moderator-1", authClaims{Role: "admin"})
}

func (ts *testServer) do(method, path string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	ts.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(ts.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func reviewBody(resourceID, email string, rating int) map[string]any {
	return map[string]any{
		"resourceType":   "destination",
		"resourceId":     resourceID,
		"author":         map[string]any{"name": "Alice", "email": email},
		"rating":         rating,
		"title":          "Wonderful stay",
		"content":        "The old town was beautiful and the food was great.",
		"pros":           []string{"food", "walkable"},
		"travelDate":     "2024-05-01",
		"travelType":     "couple",
		"wouldRecommend": true,
	}
}

func (ts *testServer) submit(body map[string]any) string {
	ts.t.Helper()
	rec, env := ts.do(http.MethodPost, "/reviews", body, "")
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(ts.t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(ts.t, created.ID)
	return created.ID
}

func (ts *testServer) approve(id string) {
	ts.t.Helper()
	rec, _ := ts.do(http.MethodPut, "/reviews/"+id+"/moderate", map[string]any{"status": "approved"}, ts.adminToken())
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestSubmit_RatingOutOfRange(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.do(http.MethodPost, "/reviews", reviewBody("paris-1", "a@x.com", 6), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Validation failed", env.Error)
	fields := make([]string, 0, len(env.Details))
	for _, d := range env.Details {
		fields = append(fields, d.Field)
	}
	assert.Contains(t, fields, "rating")
}

func TestSubmit_DuplicateAuthor(t *testing.T) {
	ts := newTestServer(t)
	ts.submit(reviewBody("paris-1", "a@x.com", 5))

	rec, env := ts.do(http.MethodPost, "/reviews", reviewBody("paris-1", "A@X.com", 4), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error, "already reviewed")
}

func TestSubmit_ClientCannotSelfApprove(t *testing.T) {
	ts := newTestServer(t)
	body := reviewBody("paris-1", "a@x.com", 5)
	body["status"] = "approved"
	body["helpfulVotes"] = 99

	id := ts.submit(body)

	stored, err := ts.repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Zero(t, stored.HelpfulVotes)
}

func TestSubmit_MalformedBody(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmit_WrongTypedFieldReportsDetails(t *testing.T) {
	ts := newTestServer(t)
	body := reviewBody("paris-1", "a@x.com", 5)
	body["rating"] = "5"

	rec, env := ts.do(http.MethodPost, "/reviews", body, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", env.Error)
	require.Len(t, env.Details, 1)
	assert.Equal(t, "rating", env.Details[0].Field)
}

func TestList_FarPageReturnsEmptyEnvelope(t *testing.T) {
	ts := newTestServer(t)
	id := ts.submit(reviewBody("paris-1", "a@x.com", 5))
	ts.approve(id)
	ts.submit(reviewBody("paris-1", "b@x.com", 3))

	const far = "100000000000000000"
	for _, tc := range []struct {
		path  string
		token string
	}{
		{"/reviews/destination/paris-1?page=" + far + "&limit=100", ""},
		{"/reviews/pending?page=" + far + "&limit=100", ts.adminToken()},
	} {
		rec, env := ts.do(http.MethodGet, tc.path, nil, tc.token)
		require.Equal(t, http.StatusOK, rec.Code, tc.path)
		assert.True(t, env.Success)
		assert.JSONEq(t, `[]`, string(env.Data), tc.path)
		require.NotNil(t, env.Pagination)
		assert.Equal(t, 100000000000000000, env.Pagination.CurrentPage)
		assert.Equal(t, int64(1), env.Pagination.TotalReviews)
		assert.False(t, env.Pagination.HasNextPage)
	}
}

func TestList_LimitClampedToMaximum(t *testing.T) {
	ts := newTestServer(t)
	for i := 0; i < 105; i++ {
		r := domain.Review{
			ResourceType: domain.ResourceDestination,
			ResourceID:   "rome-1",
			Author:       domain.Author{Name: "Traveller", Email: fmt.Sprintf("t%d@x.com", i)},
			Rating:       4,
			Status:       domain.StatusApproved,
		}
		require.NoError(t, ts.repo.Create(context.Background(), &r))
	}

	rec, env := ts.do(http.MethodGet, "/reviews/destination/rome-1?limit=1000&page=0", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 100)
	assert.Equal(t, application.Pagination{CurrentPage: 1, TotalPages: 2, TotalReviews: 105, HasNextPage: true}, *env.Pagination)
}

func TestDetail_VisibleOnlyAfterApproval(t *testing.T) {
	ts := newTestServer(t)
	id := ts.submit(reviewBody("paris-1", "a@x.com", 5))

	rec, pendingEnv := ts.do(http.MethodGet, "/reviews/id/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, missingEnv := ts.do(http.MethodGet, "/reviews/id/000000000000000000000000", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, missingEnv.Error, pendingEnv.Error)

	ts.approve(id)

	rec, env := ts.do(http.MethodGet, "/reviews/id/"+id, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var review map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &review))
	assert.Equal(t, id, review["id"])
	assert.Equal(t, "approved", review["status"])
	author := review["author"].(map[string]any)
	assert.Equal(t, "Alice", author["name"])
	assert.NotContains(t, author, "email")
	assert.NotContains(t, review, "moderationNotes")
}

func TestMarkHelpful(t *testing.T) {
	ts := newTestServer(t)
	id := ts.submit(reviewBody("paris-1", "a@x.com", 5))

	rec, _ := ts.do(http.MethodPost, "/reviews/"+id+"/helpful", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	stored, err := ts.repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Zero(t, stored.HelpfulVotes)

	ts.approve(id)

	rec, env := ts.do(http.MethodPost, "/reviews/"+id+"/helpful", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"helpfulVotes":1}`, string(env.Data))

	rec, _ = ts.do(http.MethodPost, "/reviews/000000000000000000000000/helpful", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddReply(t *testing.T) {
	ts := newTestServer(t)
	id := ts.submit(reviewBody("paris-1", "a@x.com", 5))
	reply := map[string]any{
		"author":  map[string]any{"name": "Bob", "email": " BOB@example.com "},
		"content": "Thanks, this helped me plan my trip.",
	}

	rec, _ := ts.do(http.MethodPost, "/reviews/"+id+"/replies", reply, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ts.approve(id)

	rec, _ = ts.do(http.MethodPost, "/reviews/"+id+"/replies", map[string]any{
		"author":  map[string]any{"name": "Bob", "email": "bob@example.com"},
		"content": "short",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := ts.do(http.MethodPost, "/reviews/"+id+"/replies", reply, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created["id"])
	assert.NotContains(t, created["author"].(map[string]any), "email")

	stored, err := ts.repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, stored.Replies, 1)
	assert.Equal(t, "bob@example.com", stored.Replies[0].Author.Email)
}

func TestStats_EmptyResource(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.do(http.MethodGet, "/reviews/destination/tokyo/stats", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"totalReviews":0,"averageRating":0,"ratingCounts":{"1":0,"2":0,"3":0,"4":0,"5":0}}`,
		string(env.Data))
}

func TestListForResource(t *testing.T) {
	ts := newTestServer(t)
	for i, rating := range []int{5, 4, 2} {
		id := ts.submit(reviewBody("paris-1", fmt.Sprintf("user%d@x.com", i), rating))
		ts.approve(id)
	}
	ts.submit(reviewBody("paris-1", "pending@x.com", 5))

	rec, env := ts.do(http.MethodGet, "/reviews/destination/paris-1?limit=2&sortBy=rating&sortOrder=asc", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)
	assert.EqualValues(t, 2, items[0]["rating"])
	assert.EqualValues(t, 4, items[1]["rating"])

	require.NotNil(t, env.Pagination)
	assert.Equal(t, application.Pagination{CurrentPage: 1, TotalPages: 2, TotalReviews: 3, HasNextPage: true}, *env.Pagination)
	require.NotNil(t, env.Stats)
	assert.Equal(t, 3, env.Stats.TotalReviews)
	assert.InDelta(t, 11.0/3.0, env.Stats.AverageRating, 0.0001)

	rec, env = ts.do(http.MethodGet, "/reviews/destination/paris-1?minRating=4&verified=maybe", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 2)
	assert.Equal(t, int64(2), env.Pagination.TotalReviews)
}

func TestPendingList_Pagination(t *testing.T) {
	ts := newTestServer(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 45; i++ {
		r := domain.Review{
			ResourceType: domain.ResourceBlog,
			ResourceID:   "post-1",
			Author:       domain.Author{Name: "Writer", Email: fmt.Sprintf("w%d@x.com", i)},
			Rating:       4,
			Status:       domain.StatusPending,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, ts.repo.Create(context.Background(), &r))
	}

	rec, env := ts.do(http.MethodGet, "/reviews/pending?limit=20&page=2&sortBy=createdAt&sortOrder=desc", nil, ts.adminToken())
	require.Equal(t, http.StatusOK, rec.Code)

	var items []struct {
		CreatedAt time.Time `json:"createdAt"`
		Author    struct {
			Email string `json:"email"`
		} `json:"author"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 20)
	assert.True(t, items[0].CreatedAt.Equal(base.Add(24*time.Minute)))
	assert.True(t, items[19].CreatedAt.Equal(base.Add(5*time.Minute)))
	assert.NotEmpty(t, items[0].Author.Email)

	require.NotNil(t, env.Pagination)
	assert.Equal(t, 3, env.Pagination.TotalPages)
	assert.Equal(t, int64(45), env.Pagination.TotalReviews)
	assert.True(t, env.Pagination.HasNextPage)
	assert.True(t, env.Pagination.HasPrevPage)
	assert.Nil(t, env.Stats)
}

func TestModerate(t *testing.T) {
	ts := newTestServer(t)
	id := ts.submit(reviewBody("paris-1", "a@x.com", 5))
	token := ts.adminToken()

	rec, _ := ts.do(http.MethodPut, "/reviews/"+id+"/moderate", map[string]any{"status": "published"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := ts.do(http.MethodPut, "/reviews/"+id+"/moderate", map[string]any{
		"status":          "rejected",
		"moderationNotes": "spam",
		"featured":        false,
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%q,"status":"rejected","featured":false}`, id), string(env.Data))

	rec, _ = ts.do(http.MethodPut, "/reviews/"+id+"/moderate", map[string]any{"status": "pending", "moderationNotes": ""}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	stored, err := ts.repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "spam", stored.ModerationNotes)

	rec, _ = ts.do(http.MethodPut, "/reviews/000000000000000000000000/moderate", map[string]any{"status": "approved"}, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDelete(t *testing.T) {
	ts := newTestServer(t)
	id := ts.submit(reviewBody("paris-1", "a@x.com", 5))
	token := ts.adminToken()

	rec, env := ts.do(http.MethodDelete, "/reviews/"+id, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, _ = ts.do(http.MethodDelete, "/reviews/"+id, nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRoutesRequireRole(t *testing.T) {
	ts := newTestServer(t)

	rec, _ := ts.do(http.MethodGet, "/reviews/pending", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = ts.do(http.MethodGet, "/reviews/pending", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	userToken := signToken(t, "user-1", authClaims{Role: "member"})
	rec, _ = ts.do(http.MethodDelete, "/reviews/000000000000000000000000", nil, userToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rolesToken := signToken(t, "user-2", authClaims{Roles: []string{"editor", "admin"}})
	rec, _ = ts.do(http.MethodGet, "/reviews/pending", nil, rolesToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "x", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Role:             "admin",
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	rec, _ = ts.do(http.MethodGet, "/reviews/pending", nil, forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	rec, _ := ts.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	ts.submit(reviewBody("paris-1", "a@x.com", 5))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsRec := httptest.NewRecorder()
	ts.handler.ServeHTTP(metricsRec, req)
	require.Equal(t, http.StatusOK, metricsRec.Code)
	assert.Contains(t, metricsRec.Body.String(), `travel_reviews_reviews_submitted_total{resource_type="destination"} 1`)
}

func TestCORS(t *testing.T) {
	handler := withCORS([]string{"https://travel.example"})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/reviews", nil)
	req.Header.Set("Origin", "https://travel.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://travel.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/reviews", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
