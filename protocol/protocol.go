// Package protocol defines the wire types exchanged across the engine's
// boundary (spec.md §4.7, §6); the two entry points that accept them are
// engine.ProcessFile and engine.ProcessBatch.
// The core never touches a socket or a file descriptor: requests arrive as
// decoded Go values and responses leave the same way, leaving the JSON
// string<->value conversion to whatever embeds this package.
package protocol

import "github.com/oxhq/synedit/ops"

// ErrorCode is the closed error taxonomy of spec.md §7, spanning both the
// per-operation codes defined in ops and the request-level codes that only
// the orchestrator can raise.
type ErrorCode string

const (
	ErrSymbolNotFound      ErrorCode = "SYMBOL_NOT_FOUND"
	ErrAmbiguousMatch      ErrorCode = "AMBIGUOUS_MATCH"
	ErrInvalidParams       ErrorCode = "INVALID_PARAMS"
	ErrEditConflict        ErrorCode = "EDIT_CONFLICT"
	ErrSourceHasErrors     ErrorCode = "SOURCE_HAS_ERRORS"
	ErrInvalidResult       ErrorCode = "INVALID_RESULT"
	ErrUnsupportedLanguage ErrorCode = "UNSUPPORTED_LANGUAGE"
)

// FromOpCode converts an ops-level error code into the wire-level
// ErrorCode the orchestrator attaches to a protocol.OpError.
func FromOpCode(code ops.ErrorCode) ErrorCode {
	switch code {
	case ops.ErrSymbolNotFound:
		return ErrSymbolNotFound
	case ops.ErrAmbiguousMatch:
		return ErrAmbiguousMatch
	case ops.ErrInvalidParams:
		return ErrInvalidParams
	default:
		return ErrInvalidParams
	}
}

// Status is the closed set of response-level outcomes.
type Status string

const (
	StatusApplied Status = "applied"
	StatusPreview Status = "preview"
	StatusError   Status = "error"
	StatusPartial Status = "partial"
)

// Change describes one human-readable effect of the applied edits, per
// spec.md §6's `Change` shape.
type Change struct {
	Kind    string `json:"kind"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Summary string `json:"summary"`
}

// OpError reports a single operation's failure, tagged with the index of
// the operation that produced it (spec.md §6).
type OpError struct {
	OperationIndex int       `json:"operation_index"`
	Code           ErrorCode `json:"code"`
	Message        string    `json:"message"`
}

// Request is the single-file request shape (spec.md §6).
type Request struct {
	Content    string          `json:"content"`
	Language   string          `json:"language"`
	Operations []ops.Operation `json:"operations"`
	DryRun     bool            `json:"dry_run,omitempty"`
}

// Response is the single-file response shape (spec.md §6).
type Response struct {
	Error           bool      `json:"error"`
	Content         *string   `json:"content"`
	Changes         []Change  `json:"changes"`
	Warnings        []string  `json:"warnings"`
	OperationErrors []OpError `json:"operation_errors"`
	EditCount       *int      `json:"edit_count,omitempty"`
	Status          Status    `json:"status"`
}

// BatchFile is one member of a batch request's files array.
type BatchFile struct {
	Path       string          `json:"path"`
	Content    string          `json:"content"`
	Language   string          `json:"language"`
	Operations []ops.Operation `json:"operations"`
}

// BatchRequest is the process_batch request shape (spec.md §6).
type BatchRequest struct {
	Files  []BatchFile `json:"files"`
	DryRun bool        `json:"dry_run,omitempty"`
}

// FileResult is one member of a batch response's results array.
type FileResult struct {
	Path         string   `json:"path"`
	Content      *string  `json:"content"`
	Changes      []Change `json:"changes"`
	Warnings     []string `json:"warnings"`
	EditsApplied int      `json:"edits_applied"`
}

// FileError is one member of a batch response's errors array.
type FileError struct {
	Path    string `json:"path"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"-"`
}

// BatchResponse is the process_batch response shape (spec.md §6).
type BatchResponse struct {
	Results    []FileResult `json:"results"`
	Errors     []FileError  `json:"errors"`
	TotalEdits int          `json:"total_edits"`
	Status     Status       `json:"status"`
}
