package api

import (
	"net/http"
	"time"

	"github.com/glaemscribe/glaemscribe-go/server/result"
	"github.com/glaemscribe/glaemscribe-go/server/store"
)

type transcribeRequest struct {
	Mode    string            `json:"mode"`
	Text    string            `json:"text"`
	Options map[string]string `json:"options"`
}

type transcribeResponse struct {
	Output   string   `json:"output"`
	Warnings []string `json:"warnings,omitempty"`
}

func (api *API) epTranscribe(req *http.Request) result.Result {
	var body transcribeRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest("Request body is not valid", "parsing transcribe request: %s", err.Error())
	}
	if body.Mode == "" {
		return result.BadRequest("Field \"mode\" is required", "transcribe request missing mode")
	}

	m, fp, err := api.finalizedMode(body.Mode, body.Options)
	if err != nil {
		api.recordFinalizeOutcome(req, fp, body.Options, false, err.Error())
		return result.BadRequest(
			"Mode could not be finalized with the given options",
			"finalizing mode %q: %s", body.Mode, err.Error(),
		)
	}
	api.recordFinalizeOutcome(req, fp, body.Options, true, "")

	ok, output, debug := m.Transcribe(body.Text)
	if !ok {
		return result.InternalServerError("mode %q reported not finalized despite successful Finalize call", body.Mode)
	}

	warnings := make([]string, len(debug.Warnings))
	for i, w := range debug.Warnings {
		warnings[i] = w.String()
	}

	ctx := req.Context()
	recErr := api.Store.RecordRequest(ctx, store.RequestLogEntry{
		Mode:      body.Mode,
		InputLen:  len(body.Text),
		OutputLen: len(output),
		OK:        true,
		WarnCount: len(warnings),
	})
	if recErr != nil {
		return result.OK(transcribeResponse{Output: output, Warnings: warnings}, "transcribed with mode %q but could not record request: %s", body.Mode, recErr.Error())
	}

	return result.OK(transcribeResponse{Output: output, Warnings: warnings}, "transcribed with mode %q, %d warnings", body.Mode, len(warnings))
}

// recordFinalizeOutcome persists the result of attempting to finalize a
// mode/options combination so repeat requests with the same fingerprint can
// be diagnosed from the cache without re-running finalize. Persistence
// failures are swallowed here since they must never block the response this
// attempt is for.
func (api *API) recordFinalizeOutcome(req *http.Request, fingerprint string, options map[string]string, ok bool, errMsg string) {
	_ = api.Store.PutFinalizeResult(req.Context(), fingerprint, store.FinalizeResult{
		OK:        ok,
		Error:     errMsg,
		Options:   options,
		CreatedAt: time.Now(),
	})
}
