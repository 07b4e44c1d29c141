// Package introspection compiles the JSON result of a GraphQL introspection
// query into a model.TypeModel.
package introspection

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gqlc/gqlcs/model"
	"github.com/gqlc/gqlcs/scalar"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// FormatError is returned when the JSON does not have the shape of an
// introspection response.
type FormatError struct {
	Msg string
	Err error
}

func (e *FormatError) Error() string {
	if e.Err == nil {
		return "introspection: " + e.Msg
	}
	return fmt.Sprintf("introspection: %s: %s", e.Msg, e.Err)
}

// Unwrap returns the underlying error, if any.
func (e *FormatError) Unwrap() error { return e.Err }

func formatErrorf(format string, args ...interface{}) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...)}
}

// Compile decodes an introspection response, i.e. {"data": {"__schema": ...}},
// and builds its type model. A nil scalars uses the builtin mappings.
func Compile(src []byte, scalars *scalar.Map) (*model.TypeModel, error) {
	if scalars == nil {
		scalars = scalar.New()
	}

	var resp response
	if err := json.Unmarshal(src, &resp); err != nil {
		return nil, &FormatError{Msg: "malformed response", Err: err}
	}

	switch {
	case resp.Data == nil && len(resp.Errors) > 0:
		msgs := lo.Map(resp.Errors, func(e responseError, _ int) string { return e.Message })
		return nil, formatErrorf("response contains no data: %s", strings.Join(msgs, "; "))
	case resp.Data == nil:
		return nil, formatErrorf(`missing field "data"`)
	case resp.Data.Schema == nil:
		return nil, formatErrorf(`missing field "data.__schema"`)
	case resp.Data.Schema.Types == nil:
		return nil, formatErrorf(`missing field "data.__schema.types"`)
	}

	c := &compiler{
		scalars: scalars,
		model:   model.New(),
		log:     zap.L().Named("introspection"),
	}
	return c.compile(resp.Data.Schema)
}

type compiler struct {
	scalars *scalar.Map
	model   *model.TypeModel
	log     *zap.Logger
}

func (c *compiler) compile(s *schema) (*model.TypeModel, error) {
	types := lo.Filter(*s.Types, func(t *fullType, _ int) bool {
		return t != nil && !strings.HasPrefix(t.Name, "__")
	})

	seen := make(map[string]bool, len(types))
	for _, t := range types {
		if t.Name == "" {
			return nil, formatErrorf("unnamed type of kind %q", t.Kind)
		}
		if seen[t.Name] {
			return nil, formatErrorf("duplicate type: %s", t.Name)
		}
		seen[t.Name] = true

		switch t.Kind {
		case enumKind:
			c.model.Enums.Add(t.Name, lo.Map(t.EnumValues, func(v *enumValue, _ int) string {
				return v.Name
			}))
		case objectKind:
			def, err := c.typeDef(t.Name, false, lo.Map(t.Fields, func(f *field, _ int) *inputValue {
				return &inputValue{Name: f.Name, Type: f.Type}
			}))
			if err != nil {
				return nil, err
			}
			c.model.Types.Add(def)
		case inputObjectKind:
			def, err := c.typeDef(t.Name, true, t.InputFields)
			if err != nil {
				return nil, err
			}
			c.model.Inputs.Add(def)
		case scalarKind, interfaceKind, unionKind:
		default:
			c.log.Debug("skipping type", zap.String("name", t.Name), zap.String("kind", t.Kind))
		}
	}

	var err error
	c.model.Query, err = c.root(s.QueryType, "Query")
	if err != nil {
		return nil, err
	}
	c.model.Mutation, err = c.root(s.MutationType, "Mutation")
	if err != nil {
		return nil, err
	}
	return c.model, nil
}

func (c *compiler) typeDef(name string, isInput bool, fields []*inputValue) (*model.TypeDef, error) {
	mfields := make([]*model.Field, 0, len(fields))
	for _, f := range fields {
		ref, kind, err := normalize(f.Type)
		if err != nil {
			return nil, formatErrorf("field %s.%s: %s", name, f.Name, err.Msg)
		}

		if listDepth(f.Type) > 1 {
			c.log.Debug("collapsing nested list", zap.String("field", name+"."+f.Name), zap.String("type", ref.Name))
		}

		nativeType := ref.Name
		if kind == model.ScalarRef {
			nativeType = c.scalars.Resolve(ref.Name)
		}
		mfields = append(mfields, model.NewField(f.Name, ref, kind, nativeType))
	}
	return model.NewTypeDef(name, isInput, mfields), nil
}

// root resolves a root operation type. Without an explicit reference the
// conventional name is looked up instead.
func (c *compiler) root(ref *typeRef, convention string) (*model.TypeDef, error) {
	if ref == nil || ref.Name == "" {
		def, _ := c.model.Types.Get(convention)
		return def, nil
	}

	def, exists := c.model.Types.Get(ref.Name)
	if !exists {
		return nil, formatErrorf("undefined %s root type: %s", strings.ToLower(convention), ref.Name)
	}
	return def, nil
}

// normalize unwraps the NON_NULL and LIST kinds surrounding a named type.
func normalize(t *typeRef) (model.Ref, model.Kind, *FormatError) {
	var ref model.Ref

	named, err := unwrap(t, &ref, 0)
	if err != nil {
		return ref, model.ObjectRef, err
	}

	switch named.Kind {
	case scalarKind:
		return ref, model.ScalarRef, nil
	case enumKind:
		return ref, model.EnumRef, nil
	}
	return ref, model.ObjectRef, nil
}

// unwrap records the wrapper kinds around the named type into ref.
// depth counts the lists entered so far: a NON_NULL outside of any list
// marks the field non-nullable, while one directly around the named type
// inside a list marks the elements non-nullable.
func unwrap(t *typeRef, ref *model.Ref, depth int) (*typeRef, *FormatError) {
	if t == nil {
		return nil, formatErrorf("truncated type reference")
	}

	switch t.Kind {
	case nonNullKind:
		if t.OfType == nil {
			return nil, formatErrorf("truncated type reference")
		}

		switch {
		case depth == 0:
			ref.IsNonNullable = true
		case t.OfType.Kind != listKind && t.OfType.Kind != nonNullKind:
			ref.IsElemNonNullable = true
		}
		return unwrap(t.OfType, ref, depth)
	case listKind:
		ref.IsArray = true
		return unwrap(t.OfType, ref, depth+1)
	}

	if t.Name == "" {
		return nil, formatErrorf("unnamed type reference of kind %q", t.Kind)
	}
	ref.Name = t.Name
	return t, nil
}

func listDepth(t *typeRef) (n int) {
	for ; t != nil; t = t.OfType {
		if t.Kind == listKind {
			n++
		}
	}
	return
}
