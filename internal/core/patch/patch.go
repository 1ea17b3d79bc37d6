// Package patch は宣言的な部分更新 (JSON Patch) をリソースへ適用します。
//
// 操作は並び順に適用され、最初に失敗した操作で中断します。入力のドキュメントは変更しません。
package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

const (
	OpAdd     = "add"
	OpRemove  = "remove"
	OpReplace = "replace"
	OpMove    = "move"
	OpCopy    = "copy"
	OpTest    = "test"

	// OpSet はメンバーの有無を問わず値を設定します。
	OpSet = "set"
)

// Operation は部分更新の 1 ステップです。
type Operation struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	From  string          `json:"from,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// NewOperation は value を JSON に変換して Operation を生成します。
func NewOperation(op, path string, value any) (Operation, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return Operation{}, fmt.Errorf("patch: encode value: %w", err)
	}
	return Operation{Op: op, Path: path, Value: raw}, nil
}

func (o Operation) kind() string {
	return strings.ToLower(strings.TrimSpace(o.Op))
}

func (o Operation) check() error {
	if err := checkPointer(o.Path); err != nil {
		return err
	}

	switch o.kind() {
	case OpAdd, OpReplace, OpTest, OpSet:
		if len(o.Value) == 0 {
			return fmt.Errorf("%w for %q", ErrMissingValue, o.kind())
		}
		if !json.Valid(o.Value) {
			return fmt.Errorf("%w: value is not valid JSON", ErrInvalidOperation)
		}
	case OpMove, OpCopy:
		if err := checkPointer(o.From); err != nil {
			return err
		}
		if o.kind() == OpMove && strings.HasPrefix(o.Path, o.From+"/") {
			return ErrInvalidMove
		}
	case OpRemove:
		if o.Path == "" {
			return fmt.Errorf("%w: the document root cannot be removed", ErrInvalidOperation)
		}
	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidOperation, o.Op)
	}
	return nil
}

// checkPointer は RFC 6901 の構文だけを検査します。
func checkPointer(raw string) error {
	if raw == "" {
		return nil
	}
	if !strings.HasPrefix(raw, "/") {
		return fmt.Errorf("%w: %q must start with '/'", ErrInvalidPointer, raw)
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] != '~' {
			continue
		}
		if i+1 >= len(raw) || (raw[i+1] != '0' && raw[i+1] != '1') {
			return fmt.Errorf("%w: bad escape in %q", ErrInvalidPointer, raw)
		}
	}
	return nil
}

type libraryOp struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	From  string          `json:"from,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

func single(kind string, o Operation) (jsonpatch.Patch, error) {
	raw, err := json.Marshal([]libraryOp{{Op: kind, Path: o.Path, From: o.From, Value: o.Value}})
	if err != nil {
		return nil, err
	}
	return jsonpatch.DecodePatch(raw)
}

func applyOptions() *jsonpatch.ApplyOptions {
	opts := jsonpatch.NewApplyOptions()
	opts.SupportNegativeIndices = false
	opts.EnsurePathExistsOnAdd = false
	opts.AllowMissingPathOnRemove = false
	return opts
}

func (o Operation) apply(doc []byte, opts *jsonpatch.ApplyOptions) ([]byte, error) {
	kind := o.kind()
	if kind != OpSet {
		p, err := single(kind, o)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOperation, err)
		}
		return p.ApplyWithOptions(doc, opts)
	}

	// set: "-" は末尾追加、既存の位置は置換、存在しないメンバーは追加
	if !strings.HasSuffix(o.Path, "/-") {
		replace, err := single(OpReplace, o)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOperation, err)
		}
		if out, err := replace.ApplyWithOptions(doc, opts); err == nil {
			return out, nil
		}
	}
	add, err := single(OpAdd, o)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOperation, err)
	}
	return add.ApplyWithOptions(doc, opts)
}

// classify はライブラリのエラーをこのパッケージの原因へ対応付けます。
func classify(err error) error {
	switch {
	case errors.Is(err, ErrInvalidOperation):
		return err
	case errors.Is(err, jsonpatch.ErrTestFailed):
		return fmt.Errorf("%w: %v", ErrTestFailed, err)
	case errors.Is(err, jsonpatch.ErrInvalidIndex):
		return fmt.Errorf("%w: %v", ErrInvalidIndex, err)
	case errors.Is(err, jsonpatch.ErrMissing):
		return fmt.Errorf("%w: %v", ErrPathNotFound, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidOperation, err)
	}
}

// Validate は操作列を適用せずに形式だけを検査します。
func Validate(ops []Operation) error {
	for i, op := range ops {
		if err := op.check(); err != nil {
			return &OperationError{Index: i, Op: op.Op, Path: op.Path, Err: err}
		}
	}
	return nil
}

// Apply は JSON ドキュメント doc へ ops を順に適用した新しいドキュメントを返します。
func Apply(doc []byte, ops []Operation) ([]byte, error) {
	opts := applyOptions()
	out := bytes.Clone(doc)
	for i, op := range ops {
		err := op.check()
		if err == nil {
			var next []byte
			if next, err = op.apply(out, opts); err == nil {
				out = next
				continue
			}
			err = classify(err)
		}
		return nil, &OperationError{Index: i, Op: op.Op, Path: op.Path, Err: err}
	}
	return out, nil
}

// ApplyTo は value を JSON ドキュメントとして ops を適用し、同じ型へ戻します。
// 未知のメンバーや型の不一致は、それを持ち込んだ操作の ErrInvalidDocument になります。
func ApplyTo[T any](value T, ops []Operation) (T, error) {
	var zero T

	raw, err := json.Marshal(value)
	if err != nil {
		return zero, fmt.Errorf("patch: encode document: %w", err)
	}

	patched, err := Apply(raw, ops)
	if err != nil {
		return zero, err
	}

	var result T
	if err := decodeStrict(patched, &result); err != nil {
		if len(ops) == 0 {
			return zero, fmt.Errorf("patch: %w: %v", ErrInvalidDocument, err)
		}
		i := firstMismatch[T](raw, ops)
		return zero, &OperationError{
			Index: i,
			Op:    ops[i].Op,
			Path:  ops[i].Path,
			Err:   fmt.Errorf("%w: %v", ErrInvalidDocument, err),
		}
	}
	return result, nil
}

// firstMismatch は適用後のドキュメントが T に収まらなくなった最初の操作の位置を返します。
func firstMismatch[T any](doc []byte, ops []Operation) int {
	for i := range ops {
		partial, err := Apply(doc, ops[:i+1])
		if err != nil {
			break
		}
		var candidate T
		if decodeStrict(partial, &candidate) != nil {
			return i
		}
	}
	return len(ops) - 1
}

func decodeStrict(raw []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
