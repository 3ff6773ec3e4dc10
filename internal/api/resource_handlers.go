package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deepbrowser/deepbrowser-server/internal/http/response"
	"github.com/deepbrowser/deepbrowser-server/internal/service"
)

// Workspaces

func (s *Server) handleListWorkspaces(w http.ResponseWriter, r *http.Request) {
	workspaces, err := s.services.Workspaces.List(r.Context(), actingUser(r.Context()).ID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, workspaces, s.logger)
}

func (s *Server) handleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req service.CreateWorkspaceRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	workspace, err := s.services.Workspaces.Create(r.Context(), actingUser(r.Context()).ID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, workspace, s.logger)
}

// Clips

func (s *Server) handleListClips(w http.ResponseWriter, r *http.Request) {
	clips, err := s.services.Clips.List(r.Context(), actingUser(r.Context()).ID, r.URL.Query().Get("workspace_id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, clips, s.logger)
}

func (s *Server) handleCreateClip(w http.ResponseWriter, r *http.Request) {
	var req service.CreateClipRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	clip, err := s.services.Clips.Create(r.Context(), actingUser(r.Context()).ID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, clip, s.logger)
}

func (s *Server) handleDeleteClip(w http.ResponseWriter, r *http.Request) {
	err := s.services.Clips.Delete(r.Context(), actingUser(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, map[string]string{"message": "Deleted"}, s.logger)
}

// Notes

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.services.Notes.List(r.Context(), actingUser(r.Context()).ID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, notes, s.logger)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req service.CreateNoteRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	note, err := s.services.Notes.Create(r.Context(), actingUser(r.Context()).ID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, note, s.logger)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateNoteRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	note, err := s.services.Notes.Update(r.Context(), actingUser(r.Context()).ID, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, note, s.logger)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	err := s.services.Notes.Delete(r.Context(), actingUser(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, map[string]string{"message": "Deleted"}, s.logger)
}

// Tasks

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.services.Tasks.List(r.Context(), actingUser(r.Context()).ID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, tasks, s.logger)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTaskRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	task, err := s.services.Tasks.Create(r.Context(), actingUser(r.Context()).ID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, task, s.logger)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateTaskRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	task, err := s.services.Tasks.Update(r.Context(), actingUser(r.Context()).ID, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, task, s.logger)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	err := s.services.Tasks.Delete(r.Context(), actingUser(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, map[string]string{"message": "Deleted"}, s.logger)
}

// Bookmarks

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := s.services.Bookmarks.List(r.Context(), actingUser(r.Context()).ID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, bookmarks, s.logger)
}

func (s *Server) handleCreateBookmark(w http.ResponseWriter, r *http.Request) {
	var req service.CreateBookmarkRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	bookmark, err := s.services.Bookmarks.Create(r.Context(), actingUser(r.Context()).ID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, bookmark, s.logger)
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	err := s.services.Bookmarks.Delete(r.Context(), actingUser(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, map[string]string{"message": "Deleted"}, s.logger)
}

// History

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.services.History.List(r.Context(), actingUser(r.Context()).ID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, entries, s.logger)
}

func (s *Server) handleAddHistory(w http.ResponseWriter, r *http.Request) {
	var req service.AddHistoryRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	entry, err := s.services.History.Add(r.Context(), actingUser(r.Context()).ID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, entry, s.logger)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.services.History.Clear(r.Context(), actingUser(r.Context()).ID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, map[string]string{"message": "History cleared"}, s.logger)
}

// Settings

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.services.Settings.Get(r.Context(), actingUser(r.Context()).ID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, settings, s.logger)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateSettingsRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	settings, err := s.services.Settings.Update(r.Context(), actingUser(r.Context()).ID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, settings, s.logger)
}

// Focus sessions

func (s *Server) handleListFocusSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.services.Focus.List(r.Context(), actingUser(r.Context()).ID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, sessions, s.logger)
}

func (s *Server) handleUpdateFocusSession(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateFocusSessionRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	session, err := s.services.Focus.Update(r.Context(), actingUser(r.Context()).ID, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, session, s.logger)
}
