// Package api provides the HTTP endpoints for the glaemscribe server:
// listing bundled modes, transcribing text through one, and reloading the
// bundle from disk. Every route is wrapped the same way: an EndpointFunc
// returning a result.Result, panic-to-500 recovery, and a logged response.
// This domain has no accounts, so there is no login/session/user surface.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	glaemscribe "github.com/glaemscribe/glaemscribe-go"
	"github.com/glaemscribe/glaemscribe-go/internal/registry"
	"github.com/glaemscribe/glaemscribe-go/server/middle"
	"github.com/glaemscribe/glaemscribe-go/server/result"
	"github.com/glaemscribe/glaemscribe-go/server/serr"
	"github.com/glaemscribe/glaemscribe-go/server/store"
)

// PathPrefix is the prefix every route in this package is mounted under.
const PathPrefix = "/api/v1"

// API holds the dependencies every endpoint needs. Use New to construct
// one; its zero value has no usable bundle.
type API struct {
	// Store records request history and caches finalize results.
	Store store.Store

	// UnauthDelay is slept before responding to an unauthorized or
	// server-error request, to deprioritize such requests.
	UnauthDelay time.Duration

	// BundleDir is re-read from on an admin reload request.
	BundleDir string

	// AdminToken is the plaintext admin token compared against the bearer
	// token on /admin routes. Only its bcrypt hash should ever be
	// persisted to disk; see server/config.
	AdminToken string

	bundleMu sync.RWMutex
	bundle   *registry.Bundle

	// finalized caches already-finalized modes by fingerprint of
	// (mode name, options), since finalizing the same mode/option
	// combination repeatedly for many requests is wasted work.
	finalizedMu sync.Mutex
	finalized   map[string]*glaemscribe.Mode
}

// New builds an API serving the given already-loaded bundle.
func New(bundle *registry.Bundle, st store.Store, bundleDir string, adminToken string, unauthDelay time.Duration) *API {
	return &API{
		bundle:      bundle,
		Store:       st,
		BundleDir:   bundleDir,
		AdminToken:  adminToken,
		UnauthDelay: unauthDelay,
		finalized:   make(map[string]*glaemscribe.Mode),
	}
}

// CurrentBundle returns the bundle currently serving requests.
func (api *API) CurrentBundle() *registry.Bundle {
	api.bundleMu.RLock()
	defer api.bundleMu.RUnlock()
	return api.bundle
}

func (api *API) setBundle(b *registry.Bundle) {
	api.bundleMu.Lock()
	api.bundle = b
	api.bundleMu.Unlock()

	api.finalizedMu.Lock()
	api.finalized = make(map[string]*glaemscribe.Mode)
	api.finalizedMu.Unlock()
}

// finalizedMode returns a finalized mode for name with the given option
// overrides applied, reusing a cached instance when one already exists for
// this exact fingerprint.
func (api *API) finalizedMode(modeName string, options map[string]string) (*glaemscribe.Mode, string, error) {
	fp := store.Fingerprint(modeName, options)

	api.finalizedMu.Lock()
	if m, ok := api.finalized[fp]; ok {
		api.finalizedMu.Unlock()
		return m, fp, nil
	}
	api.finalizedMu.Unlock()

	m, err := api.CurrentBundle().Mode(modeName)
	if err != nil {
		return nil, fp, err
	}
	if err := m.Finalize(options); err != nil {
		return nil, fp, err
	}

	api.finalizedMu.Lock()
	api.finalized[fp] = m
	api.finalizedMu.Unlock()

	return m, fp, nil
}

// Router builds a chi.Router mounting every endpoint under PathPrefix.
func (api *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/modes", api.endpoint(api.epListModes))
	r.Post("/transcribe", api.endpoint(api.epTranscribe))

	r.Route("/admin", func(r chi.Router) {
		r.Use(middle.RequireAdminToken(api.AdminToken, api.UnauthDelay))
		r.Post("/reload", api.endpoint(api.epAdminReload))
	})

	return r
}

// EndpointFunc is the signature every API handler is implemented as: it
// receives the request and returns the Result to send, rather than
// writing directly to an http.ResponseWriter.
type EndpointFunc func(req *http.Request) result.Result

func (api *API) endpoint(ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer api.panicTo500(w, req)

		r := ep(req)
		if r.Status == 0 {
			result.InternalServerError("endpoint result was never populated").WriteResponse(w)
			return
		}

		if err := r.PrepareMarshaledResponse(); err != nil {
			r = result.Err(r.Status, "An internal server error occurred", "could not marshal JSON response: %s", err.Error())
		}

		r.Log(req)
		if r.Status == http.StatusUnauthorized || r.Status == http.StatusForbidden || r.Status == http.StatusInternalServerError {
			time.Sleep(api.UnauthDelay)
		}
		r.WriteResponse(w)
	}
}

func (api *API) panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		)
		r.Log(req)
		r.WriteResponse(w)
	}
}

// parseJSON decodes req's JSON body into v. Returns a serr.Error wrapping
// serr.ErrBodyUnmarshal if the content type isn't JSON or decoding fails.
func parseJSON(req *http.Request, v interface{}) error {
	if !strings.EqualFold(req.Header.Get("Content-Type"), "application/json") {
		return serr.New("request content-type is not application/json", serr.ErrBodyUnmarshal)
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(body))
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}
	return nil
}
