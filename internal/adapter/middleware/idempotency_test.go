package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"loan-management-backend/internal/domain/access"
	"loan-management-backend/internal/domain/user"
)

const (
	testPrincipalHeader = "X-Test-Principal"
	alice               = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	bob                 = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	key1                = "0123456789abcdef0123456789abcdef"
)

// fakeAuth stands in for Auth: the principal id comes from a test header.
func fakeAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id := c.Request().Header.Get(testPrincipalHeader); id != "" {
			SetPrincipal(c, access.Principal{ID: id, Role: user.RoleUser})
		}
		return next(c)
	}
}

// helper: new Echo with the middleware and a simple route
func setupEcho(rdb redis.Cmdable, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	logger, _ := logtest.NewNullLogger()
	e.Use(fakeAuth, IdempotencyMiddleware(rdb, ttl, logger))
	e.POST("/loans", handler)
	e.GET("/loans", handler) // for non-mutating bypass test
	return e
}

func mkJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, rdb
}

// counting handler to tell real executions from replays
func countingHandler(n *int32, code int) echo.HandlerFunc {
	return func(c echo.Context) error {
		v := atomic.AddInt32(n, 1)
		return c.JSON(code, map[string]any{"ok": true, "n": v})
	}
}

func Test_BypassOnGET_NoHeadersRequired(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "get ok"})
	})
	rec := doReq(t, e, http.MethodGet, "/loans", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func Test_NoKey_PassesThrough(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var n int32
	e := setupEcho(rdb, time.Minute, countingHandler(&n, http.StatusCreated))

	for i := 0; i < 2; i++ {
		rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"x": 1}), map[string]string{testPrincipalHeader: alice})
		if rec.Code != http.StatusCreated {
			t.Fatalf("want 201, got %d", rec.Code)
		}
	}
	if n != 2 {
		t.Fatalf("requests without a key must always execute, ran %d times", n)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("nothing should be stored without a key: %v", mr.Keys())
	}
}

func Test_ValidationFailures(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var n int32
	e := setupEcho(rdb, 30*time.Second, countingHandler(&n, http.StatusCreated))

	cases := map[string]map[string]string{
		"invalid key": {
			HeaderIdempotencyKey: "NOT-VALID",
		},
		"invalid request-at": {
			HeaderIdempotencyKey: key1,
			HeaderRequestAt:      "not-a-time",
		},
		"request-at skewed to the past": {
			HeaderIdempotencyKey: key1,
			HeaderRequestAt:      time.Now().UTC().Add(-maxClockSkew - time.Minute).Format(time.RFC3339),
		},
		"request-at skewed to the future": {
			HeaderIdempotencyKey: key1,
			HeaderRequestAt:      time.Now().UTC().Add(maxClockSkew + time.Minute).Format(time.RFC3339),
		},
	}
	for name, h := range cases {
		h[testPrincipalHeader] = alice
		rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"x": 1}), h)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s => want 400, got %d", name, rec.Code)
		}
	}
	if n != 0 {
		t.Fatalf("handler must not run on header errors, ran %d times", n)
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var n int32
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&n, http.StatusCreated))

	h := map[string]string{
		HeaderIdempotencyKey: key1,
		HeaderRequestAt:      time.Now().UTC().Format(time.RFC3339),
		testPrincipalHeader:  alice,
	}

	rec1 := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]any{"amount": "5000"}), h)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first request => want 201, got %d, body: %s", rec1.Code, rec1.Body.String())
	}

	// Second request with SAME headers & body -> replay stored response (also 201)
	rec2 := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]any{"amount": "5000"}), h)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay => want 201, got %d, body: %s", rec2.Code, rec2.Body.String())
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
	if n != 1 {
		t.Fatalf("handler should run once, ran %d times", n)
	}
}

func Test_KeyIsScopedPerPrincipal(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var n int32
	e := setupEcho(rdb, time.Minute, countingHandler(&n, http.StatusCreated))

	for _, who := range []string{alice, bob} {
		h := map[string]string{HeaderIdempotencyKey: key1, testPrincipalHeader: who}
		rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"x": 1}), h)
		if rec.Code != http.StatusCreated {
			t.Fatalf("%s => want 201, got %d", who, rec.Code)
		}
	}
	if n != 2 {
		t.Fatalf("same key from two principals must not collide, ran %d times", n)
	}
}

func Test_ServerErrorsAreNotCached(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var n int32
	e := setupEcho(rdb, time.Minute, countingHandler(&n, http.StatusInternalServerError))

	h := map[string]string{HeaderIdempotencyKey: key1, testPrincipalHeader: alice}
	for i := 0; i < 2; i++ {
		rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"x": 1}), h)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("want 500, got %d", rec.Code)
		}
	}
	if n != 2 {
		t.Fatalf("a failed request should be retryable with the same key, ran %d times", n)
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var n int32
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&n, http.StatusCreated))

	method := http.MethodPost
	path := "/loans"
	body := []byte(`{"x":1}`)

	// an unfinished reservation from an earlier request
	key := buildKey(method, path, alice, key1)
	entry := idempEntry{
		InProgress: true,
		BodySHA256: bodyHash(body),
		RequestID:  key1,
		CreatedAt:  time.Now().UTC(),
	}
	if ok, err := (idempStore{rdb: rdb}).reserve(context.Background(), key, entry); err != nil || !ok {
		t.Fatalf("seed provisional failed, ok=%v err=%v", ok, err)
	}

	h := map[string]string{HeaderIdempotencyKey: key1, testPrincipalHeader: alice}
	rec := doReq(t, e, method, path, bytes.NewReader(body), h)

	if rec.Code != http.StatusConflict {
		t.Fatalf("in-progress => want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
	if n != 0 {
		t.Fatal("handler must not run while the key is in progress")
	}
}

func Test_Conflict_When_SameKey_DifferentBody(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var n int32
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&n, http.StatusCreated))

	h := map[string]string{HeaderIdempotencyKey: key1, testPrincipalHeader: alice}
	if rec := doReq(t, e, http.MethodPost, "/loans", bytes.NewReader([]byte(`{"x":1}`)), h); rec.Code != http.StatusCreated {
		t.Fatalf("first => want 201, got %d", rec.Code)
	}
	rec := doReq(t, e, http.MethodPost, "/loans", bytes.NewReader([]byte(`{"x":2}`)), h)
	if rec.Code != http.StatusConflict {
		t.Fatalf("different body same key => want 409, got %d", rec.Code)
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	// Create a client that points to a closed address → SetNX error
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	var n int32
	e := setupEcho(rdb, time.Minute, countingHandler(&n, http.StatusCreated))

	h := map[string]string{HeaderIdempotencyKey: key1, testPrincipalHeader: alice}
	rec := doReq(t, e, http.MethodPost, "/loans", bytes.NewReader([]byte(`{}`)), h)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store unavailable => want 503, got %d", rec.Code)
	}
}
