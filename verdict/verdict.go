package verdict

// Status is the classified outcome of evaluating a submission
// against one or all of its test cases.
type Status string

const (
	StatusQueued           Status = "QUEUED"
	StatusProcessing       Status = "PROCESSING"
	StatusAccepted         Status = "ACCEPTED"
	StatusWrongAnswer      Status = "WRONG_ANSWER"
	StatusTimeLimit        Status = "TIME_LIMIT"
	StatusMemoryLimit      Status = "MEMORY_LIMIT"
	StatusCompilationError Status = "COMPILATION_ERROR"
	StatusRuntimeSigsegv   Status = "RUNTIME_ERROR_SIGSEGV"
	StatusRuntimeSigxfsz   Status = "RUNTIME_ERROR_SIGXFSZ"
	StatusRuntimeSigfpe    Status = "RUNTIME_ERROR_SIGFPE"
	StatusRuntimeSigabrt   Status = "RUNTIME_ERROR_SIGABRT"
	StatusRuntimeNzec      Status = "RUNTIME_ERROR_NZEC"
	StatusRuntimeOther     Status = "RUNTIME_ERROR_OTHER"
	StatusOther            Status = "OTHER"
)

// IsTerminal reports whether the status is a final evaluation
// outcome as opposed to a queue placeholder.
func (s Status) IsTerminal() bool {
	return s != StatusQueued && s != StatusProcessing
}

// Verdict is the aggregated result of one submission. TestCases
// holds at most one entry, the first failing case; it is empty
// when the overall status is ACCEPTED.
type Verdict struct {
	Status    Status           `json:"status"`
	TestCases []TestCaseResult `json:"test_cases"`
	ErrorMsg  string           `json:"error_message,omitempty"`
}

// TestCaseResult describes the outcome of a single test case. The
// input / expected / actual fields are display excerpts truncated
// by NewTestCaseResult; truncation never feeds back into comparison
// logic, which happens on the judge side.
type TestCaseResult struct {
	Input    string `json:"test_case"`
	Expected string `json:"expected_output"`
	Actual   string `json:"actual_output"`
	Status   Status `json:"verdict"`
}

const excerptLen = 60

// NewTestCaseResult builds a TestCaseResult with all text fields
// truncated to a fixed display length.
func NewTestCaseResult(input, expected, actual string, status Status) TestCaseResult {
	return TestCaseResult{
		Input:    excerpt(input),
		Expected: excerpt(expected),
		Actual:   excerpt(actual),
		Status:   status,
	}
}

func excerpt(s string) string {
	if len(s) > excerptLen {
		return s[:excerptLen] + "..."
	}
	return s
}

// FromJudgeStatus maps a judge status id to a Status. The mapping
// is total: ids without a dedicated status degrade to OTHER so the
// pipeline always has a verdict to act on.
func FromJudgeStatus(id int) Status {
	switch id {
	case 1, 2: // In Queue, Processing
		return StatusQueued
	case 3:
		return StatusAccepted
	case 4:
		return StatusWrongAnswer
	case 5:
		return StatusTimeLimit
	case 6:
		return StatusCompilationError
	case 7:
		return StatusRuntimeSigsegv
	case 8:
		return StatusRuntimeSigxfsz
	case 9:
		return StatusRuntimeSigfpe
	case 10:
		return StatusRuntimeSigabrt
	case 11:
		return StatusRuntimeNzec
	case 12:
		return StatusRuntimeOther
	case 17:
		return StatusMemoryLimit
	default:
		return StatusOther
	}
}

// New builds a Verdict for a terminal judge status id. A compilation
// error retains the judge's error output; other statuses drop it.
func New(judgeStatusID int, cases []TestCaseResult, errMsg string) Verdict {
	status := FromJudgeStatus(judgeStatusID)
	v := Verdict{Status: status, TestCases: cases}
	if status == StatusCompilationError || status == StatusOther {
		v.ErrorMsg = errMsg
	}
	return v
}
