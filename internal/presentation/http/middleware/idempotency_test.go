package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tillpoint/pos-api/internal/domain/entity"
)

// fakeIdempotencyRepo mirrors the repository contract: GetByKey returns only
// live rows, Create overwrites an existing (key, user) pair.
type fakeIdempotencyRepo struct {
	keys    map[string]*entity.IdempotencyKey
	created int
}

func newFakeIdempotencyRepo() *fakeIdempotencyRepo {
	return &fakeIdempotencyRepo{keys: make(map[string]*entity.IdempotencyKey)}
}

func (r *fakeIdempotencyRepo) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	ikey, ok := r.keys[key+"/"+userID.String()]
	if !ok || ikey.IsExpired() {
		return nil, nil
	}
	return ikey, nil
}

func (r *fakeIdempotencyRepo) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	r.created++
	r.keys[ikey.Key+"/"+ikey.UserID.String()] = ikey
	return nil
}

func (r *fakeIdempotencyRepo) DeleteExpired(ctx context.Context) error {
	for k, ikey := range r.keys {
		if ikey.IsExpired() {
			delete(r.keys, k)
		}
	}
	return nil
}

func newIdempotencyRouter(repo *fakeIdempotencyRepo, userID uuid.UUID, hits *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	router.POST("/checkout", IdempotencyRequired(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		*hits++
		c.JSON(201, gin.H{"success": true, "hits": *hits})
	})
	return router
}

func TestIdempotencyRequiresHeader(t *testing.T) {
	t.Parallel()

	var hits int
	router := newIdempotencyRouter(newFakeIdempotencyRepo(), uuid.New(), &hits)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader("{}"))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Zero(t, hits)
}

func TestIdempotencyReplaysCachedResponse(t *testing.T) {
	t.Parallel()

	var hits int
	repo := newFakeIdempotencyRepo()
	router := newIdempotencyRouter(repo, uuid.New(), &hits)

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader("{}"))
	req.Header.Set(IdempotencyKeyHeader, "till-7-receipt-42")
	router.ServeHTTP(first, req)

	require.Equal(t, 201, first.Code)
	require.Equal(t, 1, hits)
	require.Equal(t, 1, repo.created)

	retry := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader("{}"))
	req.Header.Set(IdempotencyKeyHeader, "till-7-receipt-42")
	router.ServeHTTP(retry, req)

	require.Equal(t, 201, retry.Code)
	require.Equal(t, 1, hits, "retry must not reach the handler")
	require.Equal(t, "true", retry.Header().Get("X-Idempotency-Replayed"))
	require.JSONEq(t, first.Body.String(), retry.Body.String())
}

func TestIdempotencyExpiredKeyIsReusable(t *testing.T) {
	t.Parallel()

	var hits int
	repo := newFakeIdempotencyRepo()
	userID := uuid.New()
	router := newIdempotencyRouter(repo, userID, &hits)

	// A key whose replay window has lapsed behaves like a fresh key
	repo.keys["till-7-receipt-42/"+userID.String()] = &entity.IdempotencyKey{
		Key:          "till-7-receipt-42",
		UserID:       userID,
		ResponseCode: 201,
		ResponseBody: `{"success":true,"hits":99}`,
		ExpiresAt:    time.Now().Add(-time.Minute),
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader("{}"))
	req.Header.Set(IdempotencyKeyHeader, "till-7-receipt-42")
	router.ServeHTTP(w, req)

	require.Equal(t, 201, w.Code)
	require.Equal(t, 1, hits)
	require.Empty(t, w.Header().Get("X-Idempotency-Replayed"))
	require.NotContains(t, w.Body.String(), "99")
	require.False(t, repo.keys["till-7-receipt-42/"+userID.String()].IsExpired(),
		"the stale row is overwritten with a fresh window")
}
