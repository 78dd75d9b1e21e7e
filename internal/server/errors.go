package server

import (
	"errors"
	"net/http"

	"github.com/erin/vibecheck/internal/interview"
	"github.com/erin/vibecheck/internal/persona"
	"github.com/erin/vibecheck/internal/report"
	"github.com/erin/vibecheck/internal/wizard"
)

// HTTPStatus returns the appropriate HTTP status code for an error.
// Guard failures are client errors; upstream model failures surface as
// bad-gateway so the UI can distinguish them from bugs in this server.
func HTTPStatus(err error) int {
	var guardErr *wizard.GuardError
	if errors.As(err, &guardErr) {
		return http.StatusBadRequest
	}

	var personaAPI *persona.APICallError
	var interviewAPI *interview.APICallError
	var reportAPI *report.APICallError
	if errors.As(err, &personaAPI) || errors.As(err, &interviewAPI) || errors.As(err, &reportAPI) {
		return http.StatusBadGateway
	}

	var personaParse *persona.ParseError
	var interviewParse *interview.ParseError
	var reportParse *report.ParseError
	if errors.As(err, &personaParse) || errors.As(err, &interviewParse) || errors.As(err, &reportParse) {
		return http.StatusBadGateway
	}

	var pipeErr *wizard.PipelineError
	if errors.As(err, &pipeErr) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}
