// Package result contains the uniform response envelope used to write out
// every glaemscribe API response, plus the request logging that goes with
// it: HTTP status, JSON (or plain-text) body, and a single log line per
// request. There are no session/login-specific constructors, since this
// domain has no accounts.
package result

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func msgAndArgs(internalMsg []interface{}, def string) (string, []interface{}) {
	if len(internalMsg) >= 1 {
		return internalMsg[0].(string), internalMsg[1:]
	}
	return def, nil
}

// OK returns a Result carrying an HTTP-200 and the given response body.
func OK(respObj interface{}, internalMsg ...interface{}) Result {
	f, a := msgAndArgs(internalMsg, "OK")
	return Response(http.StatusOK, respObj, f, a...)
}

// NoContent returns a Result carrying an HTTP-204 and no body.
func NoContent(internalMsg ...interface{}) Result {
	f, a := msgAndArgs(internalMsg, "no content")
	return Response(http.StatusNoContent, nil, f, a...)
}

// BadRequest returns a Result carrying an HTTP-400 with userMsg as the
// client-visible error.
func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	f, a := msgAndArgs(internalMsg, "bad request")
	return Err(http.StatusBadRequest, userMsg, f, a...)
}

// NotFound returns a Result carrying an HTTP-404.
func NotFound(internalMsg ...interface{}) Result {
	f, a := msgAndArgs(internalMsg, "not found")
	return Err(http.StatusNotFound, "The requested resource was not found", f, a...)
}

// MethodNotAllowed returns a Result carrying an HTTP-405 for req's method
// and path.
func MethodNotAllowed(req *http.Request, internalMsg ...interface{}) Result {
	f, a := msgAndArgs(internalMsg, "method not allowed")
	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)
	return Err(http.StatusMethodNotAllowed, userMsg, f, a...)
}

// Unauthorized returns a Result carrying an HTTP-401 with the
// WWW-Authenticate header set for bearer-token auth.
func Unauthorized(userMsg string, internalMsg ...interface{}) Result {
	f, a := msgAndArgs(internalMsg, "unauthorized")
	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}
	return Err(http.StatusUnauthorized, userMsg, f, a...).
		WithHeader("WWW-Authenticate", `Bearer realm="glaemscribe server"`)
}

// InternalServerError returns a Result carrying an HTTP-500 with a generic
// client-visible message; internalMsg is logged but never shown.
func InternalServerError(internalMsg ...interface{}) Result {
	f, a := msgAndArgs(internalMsg, "internal server error")
	return Err(http.StatusInternalServerError, "An internal server error occurred", f, a...)
}

// Response builds a successful JSON Result.
func Response(status int, respObj interface{}, internalMsg string, v ...interface{}) Result {
	return Result{IsJSON: true, Status: status, InternalMsg: fmt.Sprintf(internalMsg, v...), resp: respObj}
}

// Err builds an error JSON Result whose body is an ErrorResponse carrying
// userMsg.
func Err(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		IsJSON:      true,
		IsErr:       true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        ErrorResponse{Error: userMsg, Status: status},
	}
}

// TextErr builds an error Result whose body is plain text instead of JSON.
func TextErr(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		IsErr:       true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        userMsg,
	}
}

// Result is a prepared HTTP response plus the internal-only message that
// gets logged alongside it.
type Result struct {
	Status      int
	IsErr       bool
	IsJSON      bool
	InternalMsg string

	resp interface{}
	hdrs [][2]string

	respJSONBytes []byte
}

// WithHeader returns a copy of r with the given header added to its
// response.
func (r Result) WithHeader(name, val string) Result {
	cp := r
	cp.hdrs = append(append([][2]string{}, r.hdrs...), [2]string{name, val})
	return cp
}

// PrepareMarshaledResponse marshals the JSON body ahead of time so
// WriteResponse can never fail partway through writing headers.
func (r *Result) PrepareMarshaledResponse() error {
	if !r.IsJSON || r.Status == http.StatusNoContent || r.respJSONBytes != nil {
		return nil
	}
	var err error
	r.respJSONBytes, err = json.Marshal(r.resp)
	return err
}

// WriteResponse writes r's headers, status, and body to w.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}
	if err := r.PrepareMarshaledResponse(); err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	var body []byte
	if r.IsJSON {
		w.Header().Set("Content-Type", "application/json")
		body = r.respJSONBytes
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if r.Status != http.StatusNoContent {
			body = []byte(fmt.Sprintf("%v", r.resp))
		}
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")

	for _, h := range r.hdrs {
		w.Header().Set(h[0], h[1])
	}

	w.WriteHeader(r.Status)
	if r.Status != http.StatusNoContent {
		w.Write(body)
	}
}

// Log writes a one-line summary of req's outcome to the standard logger:
// level, client IP (port stripped), method, path, status, internal
// message.
func (r Result) Log(req *http.Request) {
	level := "INFO "
	if r.IsErr {
		level = "ERROR"
	}

	remoteIP := req.RemoteAddr
	if idx := strings.LastIndex(remoteIP, ":"); idx >= 0 {
		remoteIP = remoteIP[:idx]
	}

	log.Printf("%s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, r.Status, r.InternalMsg)
}
