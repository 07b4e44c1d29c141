// Package sdl compiles GraphQL Schema Definition Language documents
// into a model.TypeModel.
package sdl

import (
	"errors"
	"fmt"

	"github.com/gqlc/gqlcs/model"
	"github.com/gqlc/gqlcs/scalar"
	"github.com/samber/lo"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"go.uber.org/zap"
)

// ParseError is returned when a document is not valid SDL or
// cannot be reduced to a type model.
type ParseError struct {
	// Source is the name of the document.
	Source string

	// Line and Column locate the error. Both are zero if unknown.
	Line   int
	Column int

	Msg string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("sdl: %s: %s", e.Source, e.Msg)
	}
	return fmt.Sprintf("sdl: %s:%d:%d: %s", e.Source, e.Line, e.Column, e.Msg)
}

// Compile parses the SDL document src and builds its type model.
// A nil scalars uses the builtin mappings.
func Compile(name, src string, scalars *scalar.Map) (*model.TypeModel, error) {
	if scalars == nil {
		scalars = scalar.New()
	}

	doc, err := parser.ParseSchema(&ast.Source{Name: name, Input: src})
	if err != nil {
		return nil, toParseError(name, err)
	}

	c := &compiler{
		name:    name,
		scalars: scalars,
		defs:    make(map[string]*ast.Definition, len(doc.Definitions)),
		model:   model.New(),
		log:     zap.L().Named("sdl").With(zap.String("doc", name)),
	}
	return c.compile(doc)
}

func toParseError(name string, err error) *ParseError {
	pe := &ParseError{Source: name, Msg: err.Error()}

	var gerr *gqlerror.Error
	if errors.As(err, &gerr) {
		pe.Msg = gerr.Message
		if len(gerr.Locations) > 0 {
			pe.Line = gerr.Locations[0].Line
			pe.Column = gerr.Locations[0].Column
		}
	}
	return pe
}

type compiler struct {
	name    string
	scalars *scalar.Map

	// defs holds every named definition with extensions merged in.
	defs  map[string]*ast.Definition
	order []*ast.Definition

	model *model.TypeModel
	log   *zap.Logger
}

func (c *compiler) errorf(pos *ast.Position, format string, args ...interface{}) {
	pe := &ParseError{Source: c.name, Msg: fmt.Sprintf(format, args...)}
	if pos != nil {
		pe.Line, pe.Column = pos.Line, pos.Column
	}
	panic(pe)
}

func (c *compiler) recover(err *error) {
	e := recover()
	if e == nil {
		return
	}

	pe, ok := e.(*ParseError)
	if !ok {
		panic(e)
	}
	*err = pe
}

func (c *compiler) compile(doc *ast.SchemaDocument) (m *model.TypeModel, err error) {
	defer c.recover(&err)

	c.collect(doc)

	for _, d := range c.order {
		switch d.Kind {
		case ast.Enum:
			c.model.Enums.Add(d.Name, lo.Map(d.EnumValues, func(v *ast.EnumValueDefinition, _ int) string {
				return v.Name
			}))
		case ast.Object:
			c.model.Types.Add(c.typeDef(d, false))
		case ast.InputObject:
			c.model.Inputs.Add(c.typeDef(d, true))
		case ast.Scalar, ast.Interface:
		default:
			c.log.Debug("skipping definition", zap.String("name", d.Name), zap.String("kind", string(d.Kind)))
		}
	}

	c.roots(doc)
	return c.model, nil
}

// collect indexes all definitions by name and merges extensions into them.
func (c *compiler) collect(doc *ast.SchemaDocument) {
	for _, d := range doc.Definitions {
		if _, exists := c.defs[d.Name]; exists {
			c.errorf(d.Position, "duplicate definition: %s", d.Name)
		}

		c.add(d)
	}

	for _, ext := range doc.Extensions {
		base, exists := c.defs[ext.Name]
		if !exists {
			c.log.Debug("extension without base definition", zap.String("name", ext.Name))

			c.add(ext)
			continue
		}

		if base.Kind != ext.Kind {
			c.errorf(ext.Position, "cannot extend %s %s as %s", base.Kind, base.Name, ext.Kind)
		}

		base.Fields = append(base.Fields, ext.Fields...)
		base.EnumValues = append(base.EnumValues, ext.EnumValues...)
		base.Interfaces = append(base.Interfaces, ext.Interfaces...)
	}
}

// add copies d so merging extensions never touches the parsed document.
func (c *compiler) add(d *ast.Definition) {
	cp := *d
	cp.Fields = append(ast.FieldList(nil), d.Fields...)
	cp.EnumValues = append(ast.EnumValueList(nil), d.EnumValues...)
	cp.Interfaces = append([]string(nil), d.Interfaces...)

	c.defs[d.Name] = &cp
	c.order = append(c.order, &cp)
}

func (c *compiler) typeDef(d *ast.Definition, isInput bool) *model.TypeDef {
	fields := d.Fields
	if !isInput {
		fields = c.implInterfaces(fields, d.Interfaces)
	}

	mfields := make([]*model.Field, 0, len(fields))
	for _, fd := range fields {
		mfields = append(mfields, c.field(fd))
	}
	return model.NewTypeDef(d.Name, isInput, mfields)
}

// implInterfaces adds fields declared by the implemented interfaces
// which the object itself does not declare.
func (c *compiler) implInterfaces(fields ast.FieldList, interfaces []string) ast.FieldList {
	for _, name := range interfaces {
		it, exists := c.defs[name]
		if !exists || it.Kind != ast.Interface {
			c.log.Debug("unknown interface", zap.String("name", name))
			continue
		}

		for _, ifield := range it.Fields {
			if fields.ForName(ifield.Name) != nil {
				continue
			}
			fields = append(fields, ifield)
		}
	}
	return fields
}

func (c *compiler) field(fd *ast.FieldDefinition) *model.Field {
	ref := normalize(fd.Type)
	if fd.Type.Elem != nil && fd.Type.Elem.Elem != nil {
		c.log.Debug("collapsing nested list", zap.String("field", fd.Name), zap.String("type", fd.Type.String()))
	}

	kind := c.classify(ref.Name)
	nativeType := ref.Name
	if kind == model.ScalarRef {
		nativeType = c.scalars.Resolve(ref.Name)
	}

	return model.NewField(fd.Name, ref, kind, nativeType)
}

// classify determines what a base type name refers to. Declarations
// take precedence; undeclared names are scalars only if they are builtin
// or explicitly mapped.
func (c *compiler) classify(name string) model.Kind {
	if d, exists := c.defs[name]; exists {
		switch d.Kind {
		case ast.Scalar:
			return model.ScalarRef
		case ast.Enum:
			return model.EnumRef
		}
		return model.ObjectRef
	}

	if scalar.IsBuiltin(name) || c.scalars.Has(name) {
		return model.ScalarRef
	}
	return model.ObjectRef
}

// normalize reduces an SDL type reference, e.g. [String!]!, to a model.Ref.
func normalize(t *ast.Type) model.Ref {
	ref := model.Ref{IsNonNullable: t.NonNull}
	for t.Elem != nil {
		ref.IsArray = true
		t = t.Elem
	}

	ref.Name = t.NamedType
	ref.IsElemNonNullable = ref.IsArray && t.NonNull
	return ref
}

// roots resolves the Query and Mutation types, either from the schema
// definition or, if there is none, by their conventional names.
func (c *compiler) roots(doc *ast.SchemaDocument) {
	schemas := append(append(ast.SchemaDefinitionList(nil), doc.Schema...), doc.SchemaExtension...)
	if len(schemas) == 0 {
		c.model.Query, _ = c.model.Types.Get("Query")
		c.model.Mutation, _ = c.model.Types.Get("Mutation")
		return
	}

	for _, sd := range schemas {
		for _, op := range sd.OperationTypes {
			def, exists := c.model.Types.Get(op.Type)
			if !exists {
				c.errorf(sd.Position, "undefined %s root type: %s", op.Operation, op.Type)
			}

			switch op.Operation {
			case ast.Query:
				c.model.Query = def
			case ast.Mutation:
				c.model.Mutation = def
			}
		}
	}
}
