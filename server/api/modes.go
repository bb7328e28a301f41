package api

import (
	"net/http"

	"github.com/glaemscribe/glaemscribe-go/server/result"
)

// modeInfoResponse is the JSON shape of one entry in a GET /modes response.
type modeInfoResponse struct {
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
	Writing  string `json:"writing,omitempty"`
	Charset  string `json:"charset"`
}

func (api *API) epListModes(req *http.Request) result.Result {
	infos := api.CurrentBundle().List()

	resp := make([]modeInfoResponse, len(infos))
	for i, mi := range infos {
		resp[i] = modeInfoResponse{Name: mi.Name, Language: mi.Language, Writing: mi.Writing, Charset: mi.Charset}
	}

	return result.OK(resp, "listed %d modes", len(resp))
}
