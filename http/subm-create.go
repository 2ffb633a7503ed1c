package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/httplog/v2"
)

func (httpserver *HttpServer) createSubmission(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	type createSubmissionRequest struct {
		Code      string `json:"code"`
		ProblemID string `json:"problem_id"`
	}

	var request createSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	id, err := httpserver.submSrvc.Submit(r.Context(), request.Code, request.ProblemID)
	if err != nil {
		handleJsonSrvcError(logger, w, err)
		return
	}

	type createSubmissionResponse struct {
		SubmissionID string `json:"submission_id"`
	}

	writeJsonSuccessResponse(w, createSubmissionResponse{SubmissionID: id.String()})
}
