package subm

import (
	"net/http"

	"github.com/llmarena/backend/srvcerror"
)

const ErrCodeSubmissionNotFound = "submission_not_found"

func ErrSubmissionNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeSubmissionNotFound,
		"submission not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeInvalidSubmission = "invalid_submission"

func ErrInvalidSubmission() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidSubmission,
		"submission code and problem id must not be empty",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeSubmissionFailed = "submission_failed"

// ErrSubmissionFailed surfaces a stored ERROR record to a status
// query as a server error carrying the stored message.
func ErrSubmissionFailed(msg string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeSubmissionFailed,
		msg,
	).SetHttpStatusCode(http.StatusInternalServerError)
}
