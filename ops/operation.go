// Package ops implements the operation executors: one function per
// transformation kind, each consuming a CST plus its parameters and
// producing TextEdits or an operation-scoped error (spec.md §4.5).
package ops

import (
	"encoding/json"
	"fmt"

	"github.com/oxhq/synedit/cst"
	"github.com/oxhq/synedit/edit"
)

// Kind is the closed set of operation discriminants (spec.md §6).
type Kind string

const (
	RenameSymbol      Kind = "rename_symbol"
	AddImport         Kind = "add_import"
	RemoveImport      Kind = "remove_import"
	UpdateImportPaths Kind = "update_import_paths"
	AddParameter      Kind = "add_parameter"
	RemoveParameter   Kind = "remove_parameter"
	MakeAsync         Kind = "make_async"
	WrapInBlock       Kind = "wrap_in_block"
	ExtractToVariable Kind = "extract_to_variable"
)

// Operation is a tagged record: exactly one of the typed parameter fields
// is populated, selected by Kind. This mirrors a closed tagged-variant set
// dispatched by a switch, not an open inheritance hierarchy (spec.md §9).
type Operation struct {
	Kind  Kind
	Index int

	RenameSymbol      *RenameSymbolParams
	AddImport         *AddImportParams
	RemoveImport      *RemoveImportParams
	UpdateImportPaths *UpdateImportPathsParams
	AddParameter      *AddParameterParams
	RemoveParameter   *RemoveParameterParams
	MakeAsync         *MakeAsyncParams
	WrapInBlock       *WrapInBlockParams
	ExtractToVariable *ExtractToVariableParams
}

// UnmarshalJSON decodes {"op": "...", ...fields} into the matching typed
// parameter struct, keeping the wire shape flat as spec.md §6 documents it.
func (o *Operation) UnmarshalJSON(data []byte) error {
	var head struct {
		Op Kind `json:"op"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	o.Kind = head.Op

	switch head.Op {
	case RenameSymbol:
		o.RenameSymbol = &RenameSymbolParams{}
		return json.Unmarshal(data, o.RenameSymbol)
	case AddImport:
		o.AddImport = &AddImportParams{}
		return json.Unmarshal(data, o.AddImport)
	case RemoveImport:
		o.RemoveImport = &RemoveImportParams{}
		return json.Unmarshal(data, o.RemoveImport)
	case UpdateImportPaths:
		o.UpdateImportPaths = &UpdateImportPathsParams{}
		return json.Unmarshal(data, o.UpdateImportPaths)
	case AddParameter:
		o.AddParameter = &AddParameterParams{}
		return json.Unmarshal(data, o.AddParameter)
	case RemoveParameter:
		o.RemoveParameter = &RemoveParameterParams{}
		return json.Unmarshal(data, o.RemoveParameter)
	case MakeAsync:
		o.MakeAsync = &MakeAsyncParams{}
		return json.Unmarshal(data, o.MakeAsync)
	case WrapInBlock:
		o.WrapInBlock = &WrapInBlockParams{}
		return json.Unmarshal(data, o.WrapInBlock)
	case ExtractToVariable:
		o.ExtractToVariable = &ExtractToVariableParams{}
		return json.Unmarshal(data, o.ExtractToVariable)
	default:
		return fmt.Errorf("ops: unknown operation %q", head.Op)
	}
}

// ErrorCode is the closed error taxonomy of spec.md §7.
type ErrorCode string

const (
	ErrSymbolNotFound    ErrorCode = "SYMBOL_NOT_FOUND"
	ErrAmbiguousMatch    ErrorCode = "AMBIGUOUS_MATCH"
	ErrInvalidParams     ErrorCode = "INVALID_PARAMS"
	ErrUnsupportedMethod ErrorCode = "UNSUPPORTED_METHOD"
)

// OpError is a per-operation failure carrying the taxonomy code so the
// orchestrator can map it onto protocol.OpError (protocol.FromOpCode reports
// any code outside the shared three, such as UNSUPPORTED_METHOD, as
// INVALID_PARAMS).
type OpError struct {
	Code    ErrorCode
	Message string
}

func (e *OpError) Error() string { return e.Message }

func newOpError(code ErrorCode, format string, args ...any) *OpError {
	return &OpError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Execute dispatches op against tree, returning the edits it produces.
// Executors are independent: none observes another's edits within a run.
func Execute(tree *cst.Tree, op Operation) ([]edit.TextEdit, error) {
	switch op.Kind {
	case RenameSymbol:
		return execRenameSymbol(tree, op.Index, op.RenameSymbol)
	case AddImport:
		return execAddImport(tree, op.Index, op.AddImport)
	case RemoveImport:
		return execRemoveImport(tree, op.Index, op.RemoveImport)
	case UpdateImportPaths:
		return execUpdateImportPaths(tree, op.Index, op.UpdateImportPaths)
	case AddParameter:
		return execAddParameter(tree, op.Index, op.AddParameter)
	case RemoveParameter:
		return execRemoveParameter(tree, op.Index, op.RemoveParameter)
	case MakeAsync:
		return execMakeAsync(tree, op.Index, op.MakeAsync)
	case WrapInBlock:
		return execWrapInBlock(tree, op.Index, op.WrapInBlock)
	case ExtractToVariable:
		return execExtractToVariable(tree, op.Index, op.ExtractToVariable)
	default:
		return nil, newOpError(ErrUnsupportedMethod, "unknown operation %q", op.Kind)
	}
}
