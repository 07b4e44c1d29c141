// Package model contains the canonical, format independent representation
// of a compiled GraphQL schema.
//
// A TypeModel is produced by one of the schema compilers and consumed once
// by a generator. It is never mutated after compilation.
package model

import (
	"strconv"
	"strings"
)

// TypeModel is the root of a compiled schema.
type TypeModel struct {
	// Types contains the output object types.
	Types *TypeMap

	// Inputs contains the input object types.
	Inputs *TypeMap

	// Enums contains every enum and its values in declaration order.
	Enums *EnumMap

	// Query and Mutation reference root operation types in Types.
	// They are nil when the schema does not define them.
	Query    *TypeDef
	Mutation *TypeDef
}

// New returns an empty TypeModel.
func New() *TypeModel {
	return &TypeModel{
		Types:  NewTypeMap(),
		Inputs: NewTypeMap(),
		Enums:  NewEnumMap(),
	}
}

// All returns every output type followed by every input type, each
// in insertion order.
func (m *TypeModel) All() []*TypeDef {
	all := make([]*TypeDef, 0, m.Types.Len()+m.Inputs.Len())
	all = append(all, m.Types.All()...)
	return append(all, m.Inputs.All()...)
}

// TypeDef is an object or input object type.
type TypeDef struct {
	Name    string
	IsInput bool
	Fields  []*Field
}

// NewTypeDef creates a type definition and makes the native names of its
// fields unique. A native name may neither repeat an earlier field's nor
// equal the type name; such a field gets the first free _1, _2, ... suffix.
func NewTypeDef(name string, isInput bool, fields []*Field) *TypeDef {
	taken := map[string]bool{name: true}
	for _, f := range fields {
		native := f.NativeName
		for i := 1; taken[native]; i++ {
			native = f.NativeName + "_" + strconv.Itoa(i)
		}

		f.NativeName = native
		taken[native] = true
	}

	return &TypeDef{Name: name, IsInput: isInput, Fields: fields}
}

// Field returns the field with the given schema name.
func (t *TypeDef) Field(name string) (*Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Kind classifies what a field references.
type Kind uint8

// A field references exactly one of these.
const (
	ObjectRef Kind = iota
	ScalarRef
	EnumRef
)

func (k Kind) String() string {
	switch k {
	case ScalarRef:
		return "scalar"
	case EnumRef:
		return "enum"
	default:
		return "object"
	}
}

// Field is a single field of a TypeDef.
type Field struct {
	// Name is the field name as written in the schema.
	Name string

	// NativeName is the field name as emitted.
	NativeName string

	// Type is the schema name of the referenced base type.
	Type string

	// NativeType is the resolved native type for scalars or the
	// referenced type name otherwise.
	NativeType string

	IsScalar          bool
	IsEnum            bool
	IsNonNullable     bool
	IsArray           bool
	IsElemNonNullable bool
}

// NewField creates a field from a normalized type reference.
func NewField(name string, ref Ref, kind Kind, nativeType string) *Field {
	return &Field{
		Name:              name,
		NativeName:        NativeName(name),
		Type:              ref.Name,
		NativeType:        nativeType,
		IsScalar:          kind == ScalarRef,
		IsEnum:            kind == EnumRef,
		IsNonNullable:     ref.IsNonNullable,
		IsArray:           ref.IsArray,
		IsElemNonNullable: ref.IsElemNonNullable,
	}
}

// Kind returns what the field references.
func (f *Field) Kind() Kind {
	switch {
	case f.IsScalar:
		return ScalarRef
	case f.IsEnum:
		return EnumRef
	}
	return ObjectRef
}

// Ref returns the normalized type reference of the field.
func (f *Field) Ref() Ref {
	return Ref{
		Name:              f.Type,
		IsArray:           f.IsArray,
		IsNonNullable:     f.IsNonNullable,
		IsElemNonNullable: f.IsElemNonNullable,
	}
}

// NativeName upper cases the first letter of a schema name,
// e.g. date_of_birth becomes Date_of_birth.
func NativeName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
