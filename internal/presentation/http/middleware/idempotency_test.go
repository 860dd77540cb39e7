package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/infrastructure/database"
	infraRepo "github.com/sangkips/tindahan-pos/internal/infrastructure/repository"
	"github.com/sangkips/tindahan-pos/internal/presentation/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type idempotencyHarness struct {
	router *gin.Engine
	calls  int
	status int
}

// newIdempotencyHarness mounts the middleware on a settle-style POST route
// behind a stub auth layer, counting how often the handler actually runs.
func newIdempotencyHarness(t *testing.T) *idempotencyHarness {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))

	userID := uuid.New()

	gin.SetMode(gin.TestMode)
	h := &idempotencyHarness{status: http.StatusOK}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	router.Use(middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: infraRepo.NewIdempotencyRepository(db),
	}))
	router.POST("/orders/:id/settle-cash", func(c *gin.Context) {
		h.calls++
		c.JSON(h.status, gin.H{"call": h.calls})
	})
	h.router = router
	return h
}

func (h *idempotencyHarness) post(key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/orders/abc/settle-cash", strings.NewReader(body))
	if key != "" {
		req.Header.Set(middleware.IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestIdempotencyReplaysCachedResponse(t *testing.T) {
	h := newIdempotencyHarness(t)

	first := h.post("key-1", `{"collected":"300.00"}`)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get("X-Idempotency-Replayed"))

	second := h.post("key-1", `{"collected":"300.00"}`)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, h.calls)
}

func TestIdempotencyRejectsKeyReuseForDifferentBody(t *testing.T) {
	h := newIdempotencyHarness(t)

	first := h.post("key-1", `{"collected":"300.00"}`)
	require.Equal(t, http.StatusOK, first.Code)

	reused := h.post("key-1", `{"collected":"50.00"}`)
	assert.Equal(t, http.StatusConflict, reused.Code)
	assert.Equal(t, 1, h.calls)
}

func TestIdempotencyDoesNotCacheFailedResponses(t *testing.T) {
	h := newIdempotencyHarness(t)
	h.status = http.StatusUnprocessableEntity

	first := h.post("key-1", `{"collected":"-1"}`)
	require.Equal(t, http.StatusUnprocessableEntity, first.Code)

	h.status = http.StatusOK
	retry := h.post("key-1", `{"collected":"-1"}`)
	assert.Equal(t, http.StatusOK, retry.Code)
	assert.Empty(t, retry.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, 2, h.calls)
}

func TestIdempotencyWithoutKeyRunsEveryTime(t *testing.T) {
	h := newIdempotencyHarness(t)

	h.post("", `{"collected":"300.00"}`)
	h.post("", `{"collected":"300.00"}`)
	assert.Equal(t, 2, h.calls)
}
