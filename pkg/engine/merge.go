package engine

import (
	"bytes"
	"strings"

	"github.com/edouarda/rocksdb-cloud/pkg/options"
	"github.com/edouarda/rocksdb-cloud/pkg/registry"
)

// MergeOperatorFamilyName is the registry family for merge operators.
const MergeOperatorFamilyName = "MergeOperator"

// MergeOperator combines an existing value with a stack of merge operands.
// Operands are ordered oldest first.
type MergeOperator interface {
	options.Customizable

	// FullMerge resolves existing (nil when the key had no value) against
	// operands into the new value. ok is false when the operands cannot be
	// interpreted by this operator.
	FullMerge(key, existing []byte, operands [][]byte) (value []byte, ok bool)
}

// PutOperator keeps the newest operand, matching overwrite semantics.
type PutOperator struct {
	options.BaseCustomizable
}

func NewPutOperator() *PutOperator {
	m := &PutOperator{}
	m.RegisterOptions(m, m.Name(), m, nil)
	return m
}

func (m *PutOperator) Name() string { return "put" }

func (m *PutOperator) FullMerge(_, existing []byte, operands [][]byte) ([]byte, bool) {
	if len(operands) == 0 {
		return existing, true
	}
	return operands[len(operands)-1], true
}

// MaxOperator keeps the lexicographically largest of the existing value and
// all operands.
type MaxOperator struct {
	options.BaseCustomizable
}

func NewMaxOperator() *MaxOperator {
	m := &MaxOperator{}
	m.RegisterOptions(m, m.Name(), m, nil)
	return m
}

func (m *MaxOperator) Name() string { return "max" }

func (m *MaxOperator) FullMerge(_, existing []byte, operands [][]byte) ([]byte, bool) {
	best := existing
	for _, op := range operands {
		if best == nil || bytes.Compare(op, best) > 0 {
			best = op
		}
	}
	return best, true
}

// StringAppendOperator concatenates operands onto the existing value using a
// configurable delimiter.
type StringAppendOperator struct {
	options.BaseCustomizable

	opts stringAppendOptions
}

type stringAppendOptions struct {
	Delimiter string
}

var stringAppendFields = options.FieldMap{
	"delimiter": options.String(func(o *stringAppendOptions) *string {
		return &o.Delimiter
	}),
}

func NewStringAppendOperator() *StringAppendOperator {
	m := &StringAppendOperator{opts: stringAppendOptions{Delimiter: ","}}
	m.RegisterOptions(m, m.Name(), &m.opts, stringAppendFields)
	return m
}

func (m *StringAppendOperator) Name() string { return "stringappend" }

func (m *StringAppendOperator) FullMerge(_, existing []byte, operands [][]byte) ([]byte, bool) {
	parts := make([]string, 0, len(operands)+1)
	if existing != nil {
		parts = append(parts, string(existing))
	}
	for _, op := range operands {
		parts = append(parts, string(op))
	}
	return []byte(strings.Join(parts, m.opts.Delimiter)), true
}

func init() {
	registry.MustRegister(MergeOperatorFamilyName, "put",
		func(string) (options.Customizable, error) { return NewPutOperator(), nil })
	registry.MustRegister(MergeOperatorFamilyName, "max",
		func(string) (options.Customizable, error) { return NewMaxOperator(), nil })
	registry.MustRegister(MergeOperatorFamilyName, "stringappend",
		func(string) (options.Customizable, error) { return NewStringAppendOperator(), nil })
}
