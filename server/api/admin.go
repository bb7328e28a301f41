package api

import (
	"net/http"

	"github.com/glaemscribe/glaemscribe-go/internal/registry"
	"github.com/glaemscribe/glaemscribe-go/server/result"
)

type reloadResponse struct {
	ModeCount int `json:"mode_count"`
}

// epAdminReload re-reads the bundle manifest from api.BundleDir and, if it
// loads successfully, swaps it in to serve all subsequent requests. The
// previously served bundle (and its cached charsets) is simply dropped;
// requests in flight against it keep their own reference and finish
// unaffected.
func (api *API) epAdminReload(req *http.Request) result.Result {
	b, err := registry.Load(api.BundleDir)
	if err != nil {
		return result.InternalServerError("reloading bundle from %s: %s", api.BundleDir, err.Error())
	}

	api.setBundle(b)

	return result.OK(reloadResponse{ModeCount: len(b.List())}, "reloaded bundle from %s", api.BundleDir)
}
