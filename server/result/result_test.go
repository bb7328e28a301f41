package result

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_OK_buildsSuccessfulJSONResult(t *testing.T) {
	r := OK(map[string]string{"ok": "yes"})
	assert.Equal(t, http.StatusOK, r.Status)
	assert.True(t, r.IsJSON)
	assert.False(t, r.IsErr)
}

func Test_BadRequest_buildsErrorResultWithUserMessage(t *testing.T) {
	r := BadRequest("Field is required")
	assert.Equal(t, http.StatusBadRequest, r.Status)
	assert.True(t, r.IsErr)
}

func Test_Unauthorized_setsWWWAuthenticateHeader(t *testing.T) {
	r := Unauthorized("")

	w := httptest.NewRecorder()
	r.WriteResponse(w)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, `Bearer realm="glaemscribe server"`, w.Header().Get("WWW-Authenticate"))
}

func Test_WriteResponse_writesJSONBodyAndStatus(t *testing.T) {
	r := OK(map[string]string{"hello": "world"})

	w := httptest.NewRecorder()
	r.WriteResponse(w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"hello":"world"}`, w.Body.String())
}

func Test_WriteResponse_noContentWritesNoBody(t *testing.T) {
	r := NoContent()

	w := httptest.NewRecorder()
	r.WriteResponse(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func Test_WithHeader_addsHeaderWithoutMutatingOriginal(t *testing.T) {
	base := OK(nil)
	withHdr := base.WithHeader("X-Test", "1")

	w := httptest.NewRecorder()
	withHdr.WriteResponse(w)
	assert.Equal(t, "1", w.Header().Get("X-Test"))

	w2 := httptest.NewRecorder()
	base.WriteResponse(w2)
	assert.Empty(t, w2.Header().Get("X-Test"))
}

func Test_PrepareMarshaledResponse_isIdempotent(t *testing.T) {
	r := OK(map[string]string{"a": "b"})
	require.NoError(t, r.PrepareMarshaledResponse())
	first := r.respJSONBytes

	require.NoError(t, r.PrepareMarshaledResponse())
	assert.Equal(t, first, r.respJSONBytes)
}

func Test_TextErr_writesPlainTextBody(t *testing.T) {
	r := TextErr(http.StatusInternalServerError, "boom", "internal detail")

	w := httptest.NewRecorder()
	r.WriteResponse(w)

	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "boom", w.Body.String())
}

func Test_Log_doesNotPanic(t *testing.T) {
	r := OK(nil, "listed modes")
	req := httptest.NewRequest(http.MethodGet, "/modes", nil)
	req.RemoteAddr = "10.0.0.1:54321"

	assert.NotPanics(t, func() { r.Log(req) })
}
