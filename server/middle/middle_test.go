package middle

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Context().Value(AuthAdmin) == true {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusTeapot)
	})
}

func Test_RequireAdminToken_rejectsMissingToken(t *testing.T) {
	h := RequireAdminToken("secret", 0)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/admin/reload", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
}

func Test_RequireAdminToken_rejectsWrongToken(t *testing.T) {
	h := RequireAdminToken("secret", 0)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/admin/reload", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func Test_RequireAdminToken_acceptsCorrectBearerToken(t *testing.T) {
	h := RequireAdminToken("secret", 0)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/admin/reload", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func Test_RequireAdminToken_emptyConfiguredTokenRejectsEverything(t *testing.T) {
	h := RequireAdminToken("", 0)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/admin/reload", nil)
	req.Header.Set("Authorization", "Bearer ")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func Test_RequireAdminToken_sleepsUnauthedDelayBeforeResponding(t *testing.T) {
	delay := 20 * time.Millisecond
	h := RequireAdminToken("secret", delay)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/admin/reload", nil)
	w := httptest.NewRecorder()

	start := time.Now()
	h.ServeHTTP(w, req)
	elapsed := time.Since(start)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.GreaterOrEqual(t, elapsed, delay)
}

func Test_bearerToken_parsesAuthorizationHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", bearerToken(req))

	req.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", bearerToken(req))

	req.Header.Set("Authorization", "Basic abc123")
	assert.Equal(t, "", bearerToken(req))
}

func Test_DontPanic_recoversPanicAndReturns500(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		panic("boom")
	})
	h := DontPanic()(panicky)

	req := httptest.NewRequest(http.MethodGet, "/modes", nil)
	w := httptest.NewRecorder()

	assert.NotPanics(t, func() { h.ServeHTTP(w, req) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func Test_DontPanic_passesThroughWhenNoPanic(t *testing.T) {
	h := DontPanic()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/modes", nil)
	req = req.WithContext(req.Context())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
}
