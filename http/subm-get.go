package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/google/uuid"
)

func (httpserver *HttpServer) getSubmission(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	submUuidStr := chi.URLParam(r, "submUuid")
	submUuid, err := uuid.Parse(submUuidStr)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	v, err := httpserver.submSrvc.Status(r.Context(), submUuid)
	if err != nil {
		handleJsonSrvcError(logger, w, err)
		return
	}

	writeJsonSuccessResponse(w, v)
}
