package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/deepbrowser/deepbrowser-server/internal/http/response"
)

// decodeJSON reads a JSON request body into dest. A malformed body gets a 400
// and the caller should return immediately.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.UnmarshalRead(r.Body, dest); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger)
		return false
	}
	return true
}
