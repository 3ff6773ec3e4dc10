package api

import (
	"net/http"

	"github.com/deepbrowser/deepbrowser-server/internal/http/response"
	"github.com/deepbrowser/deepbrowser-server/internal/service"
)

// handleSessionInit asks the model for a focus plan and persists the resulting
// focus session under the acting identity.
func (s *Server) handleSessionInit(w http.ResponseWriter, r *http.Request) {
	var req service.SessionInitRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	plan, err := s.services.Assist.SessionInit(r.Context(), actingUser(r.Context()).ID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, plan, s.logger)
}

// handleSummarizePage summarizes a page by URL or raw content.
func (s *Server) handleSummarizePage(w http.ResponseWriter, r *http.Request) {
	var req service.SummarizePageRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	summary, err := s.services.Assist.SummarizePage(r.Context(), actingUser(r.Context()).ID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, summary, s.logger)
}

// handleReaderMode returns a readable extraction of the requested page.
func (s *Server) handleReaderMode(w http.ResponseWriter, r *http.Request) {
	var req service.ReaderModeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	article, err := s.services.Assist.ReaderMode(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, article, s.logger)
}
