package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/erin/vibecheck/internal/types"
	"github.com/erin/vibecheck/internal/wizard"
)

// CredentialStatusResponse reports whether a key is stored. The raw key
// never leaves the process.
type CredentialStatusResponse struct {
	Present bool `json:"present"`
}

// handleGetSession returns the full session snapshot. Report renderers
// consume this JSON after the run completes.
func (s *Server) handleGetSession(w http.ResponseWriter, _ *http.Request) {
	snap := s.controller.Snapshot()
	s.jsonResponse(w, http.StatusOK, snap)
}

// handleAdvance jumps the wizard to the requested step
func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	var req types.AdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.controller.Advance(wizard.Step(req.Step)); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, s.controller.Snapshot())
}

// handleReset starts a fresh run. The stored credential is untouched.
func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.controller.Reset()
	s.jsonResponse(w, http.StatusOK, s.controller.Snapshot())
}

// handleSetCredential stores a new API key
func (s *Server) handleSetCredential(w http.ResponseWriter, r *http.Request) {
	var req types.SetCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req.APIKey = strings.TrimSpace(req.APIKey)
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "api_key must not be empty")
		return
	}

	if err := s.credentials.Set(r.Context(), req.APIKey); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store credential: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, CredentialStatusResponse{Present: true})
}

// handleCredentialStatus reports key presence without revealing it
func (s *Server) handleCredentialStatus(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, CredentialStatusResponse{
		Present: s.credentials.Get() != "",
	})
}

// handleSetContent replaces the content under review
func (s *Server) handleSetContent(w http.ResponseWriter, r *http.Request) {
	var req types.SetContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	source := types.ContentSource(req.Source)
	if req.Source == "" {
		source = types.SourceText
	}

	if err := s.controller.SetContent(req.Content, source); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, s.controller.Snapshot())
}

// handleSetMode switches between standard and crisis mode
func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req types.SetModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.controller.SetContentMode(types.ContentMode(req.Mode)); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, s.controller.Snapshot())
}

// handleGeneratePersonas fills the initial persona slate. Blocks until the
// slate is ready; repeated calls with a slate present are no-ops.
func (s *Server) handleGeneratePersonas(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.GenerateInitialPersonas(r.Context()); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, s.controller.Snapshot())
}

// handleGenerateWildcard appends one wildcard persona to the slate
func (s *Server) handleGenerateWildcard(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.GenerateWildcardPersona(r.Context()); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, s.controller.Snapshot())
}

// handleTogglePersona flips selection membership for one persona
func (s *Server) handleTogglePersona(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		s.errorResponse(w, http.StatusBadRequest, "Persona ID is required")
		return
	}

	if err := s.controller.TogglePersona(id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, s.controller.Snapshot())
}

// handleAnalyzeStream runs the analysis pipeline, streaming progress as
// SSE events until the run completes or fails.
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	runErr := s.controller.RunAnalysis(r.Context(), func(e wizard.ProgressEvent) {
		switch e.Kind {
		case wizard.EventInterviewDone:
			sse.WriteEvent("interview", e) //nolint:errcheck
		case wizard.EventInterviewFailed:
			sse.WriteEvent("interview_error", e) //nolint:errcheck
		case wizard.EventComplete:
			sse.WriteEvent("complete", e) //nolint:errcheck
		default:
			sse.WriteEvent("progress", e) //nolint:errcheck
		}
	})
	if runErr != nil {
		sse.WriteError(runErr.Error())
	}
}
