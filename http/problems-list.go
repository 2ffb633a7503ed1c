package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/httplog/v2"
)

const (
	defaultProblemCount = 5
	maxProblemCount     = 10
)

func (httpserver *HttpServer) listProblems(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	n := defaultProblemCount
	if raw := r.URL.Query().Get("num_problems"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxProblemCount {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		n = parsed
	}

	listings, err := httpserver.problems.List(n)
	if err != nil {
		handleJsonSrvcError(logger, w, err)
		return
	}

	writeJsonSuccessResponse(w, listings)
}
