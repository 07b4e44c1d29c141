// Package csharp contains a C# generator for compiled GraphQL schemas.
//
// For every object and input type it emits a plain data-holder class and a
// GraphQL.NET binding class. Enums are emitted with an EnumerationGraphType
// binding and, when the schema has root operation types, a Schema subclass
// named after the client.
package csharp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gqlc/gqlcs/gen"
	"github.com/gqlc/gqlcs/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Options contains the options for the C# generator.
type Options struct {
	// Namespace wraps all generated code and names the output file. (default: Generated)
	Namespace string

	// Client is the name of the generated Schema class. (default: GraphQLClient)
	Client string
}

const (
	defaultNamespace = "Generated"
	defaultClient    = "GraphQLClient"
)

func (o *Options) withDefaults() *Options {
	out := Options{Namespace: defaultNamespace, Client: defaultClient}
	if o == nil {
		return &out
	}
	if o.Namespace != "" {
		out.Namespace = o.Namespace
	}
	if o.Client != "" {
		out.Client = o.Client
	}
	return &out
}

// FileName returns the name of the file the generator writes.
func (o *Options) FileName() string {
	return o.withDefaults().Namespace + ".cs"
}

// Emit renders m as C# source. A nil opts uses the defaults.
func Emit(m *model.TypeModel, opts *Options) string {
	g := new(Generator)
	g.Reset()
	g.emit(m, opts.withDefaults())
	return g.String()
}

// Generator generates C# code for a TypeModel.
type Generator struct {
	sync.Mutex
	bytes.Buffer

	indent []byte
}

// Reset overrides the bytes.Buffer Reset method to assist in cleaning up some Generator state.
func (g *Generator) Reset() {
	g.Buffer.Reset()
	if g.indent == nil {
		g.indent = make([]byte, 0, 5)
	}
	g.indent = g.indent[0:0]
}

var errNoContext = errors.New("missing generator context")

// Generate generates C# code for the given model and writes it to
// <Namespace>.cs in the GeneratorContext carried by ctx. Nothing is
// opened until the whole model has been emitted.
func (g *Generator) Generate(ctx context.Context, m *model.TypeModel, opts map[string]interface{}) (err error) {
	g.Lock()
	defer g.Unlock()

	gOpts, source := getOptions(opts)
	defer func() {
		if err != nil {
			err = gen.GeneratorError{
				Schema:  source,
				GenName: "csharp",
				Err:     err,
			}
		}
	}()

	gCtx := gen.Context(ctx)
	if gCtx == nil {
		return errNoContext
	}

	g.Reset()
	g.emit(m, gOpts)

	name := gOpts.FileName()
	zap.L().Named("csharp").Debug("writing generated code", zap.String("file", name), zap.Int("bytes", g.Len()))

	f, err := gCtx.Open(name)
	if err != nil {
		return err
	}

	_, err = g.WriteTo(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return
}

const header = "// Code generated by gqlcs. DO NOT EDIT."

var usings = []string{
	"System",
	"System.Collections.Generic",
	"GraphQL.Types",
}

func (g *Generator) emit(m *model.TypeModel, opts *Options) {
	g.P(header)
	g.P()
	for _, u := range usings {
		g.P("using ", u, ";")
	}
	g.P()

	g.P("namespace ", opts.Namespace)
	g.P("{")
	g.In()

	first := true
	sep := func() {
		if !first {
			g.P()
		}
		first = false
	}

	for _, def := range m.All() {
		sep()
		g.generateClass(def)
		g.P()
		g.generateBinding(def)
	}

	for _, name := range m.Enums.Names() {
		vals, _ := m.Enums.Get(name)

		sep()
		g.generateEnum(name, vals)
	}

	if m.Query != nil || m.Mutation != nil {
		sep()
		g.generateClient(opts.Client, m.Query, m.Mutation)
	}

	g.Out()
	g.P("}")
}

// generateClass emits the data-holder class of a type.
func (g *Generator) generateClass(def *model.TypeDef) {
	g.P("public class ", def.Name)
	g.P("{")
	g.In()

	for _, f := range def.Fields {
		g.P("public ", PropertyType(f), " ", f.NativeName, " { get; set; }")
	}

	g.Out()
	g.P("}")
}

// generateBinding emits the GraphQL.NET object or input object type of a type.
func (g *Generator) generateBinding(def *model.TypeDef) {
	base := lo.Ternary(def.IsInput, "InputObjectGraphType", "ObjectGraphType")
	name := def.Name + "GraphType"

	g.P("public class ", name, " : ", base, "<", def.Name, ">")
	g.P("{")
	g.In()

	g.P("public ", name, "()")
	g.P("{")
	g.In()

	g.P("Name = ", quote(def.Name), ";")
	for _, f := range def.Fields {
		g.P(FieldBinding(f, def.IsInput))
	}

	g.Out()
	g.P("}")

	g.Out()
	g.P("}")
}

func (g *Generator) generateEnum(name string, vals []string) {
	g.P("public enum ", name)
	g.P("{")
	g.In()
	for _, v := range vals {
		g.P(v, ",")
	}
	g.Out()
	g.P("}")
	g.P()

	bname := name + "GraphType"
	g.P("public class ", bname, " : EnumerationGraphType<", name, ">")
	g.P("{")
	g.In()

	g.P("public ", bname, "()")
	g.P("{")
	g.In()
	g.P("Name = ", quote(name), ";")
	g.Out()
	g.P("}")

	g.Out()
	g.P("}")
}

func (g *Generator) generateClient(name string, query, mutation *model.TypeDef) {
	g.P("public class ", name, " : Schema")
	g.P("{")
	g.In()

	g.P("public ", name, "()")
	g.P("{")
	g.In()
	if query != nil {
		g.P("Query = new ", query.Name, "GraphType();")
	}
	if mutation != nil {
		g.P("Mutation = new ", mutation.Name, "GraphType();")
	}
	g.Out()
	g.P("}")

	g.Out()
	g.P("}")
}

// PropertyType returns the C# type of the data-holder property for f.
// Only nullable scalars outside of lists get the ? suffix.
func PropertyType(f *model.Field) string {
	if f.IsArray {
		return "List<" + f.NativeType + ">"
	}
	if f.IsScalar && !f.IsNonNullable && !strings.HasSuffix(f.NativeType, "?") {
		return f.NativeType + "?"
	}
	return f.NativeType
}

// TypeHint returns the GraphQL.NET graph type for f,
// e.g. NonNullGraphType<ListGraphType<StringGraphType>>.
func TypeHint(f *model.Field) string {
	hint := capitalize(strings.TrimSuffix(f.NativeType, "?")) + "GraphType"
	if f.IsArray {
		if f.IsElemNonNullable {
			hint = "NonNullGraphType<" + hint + ">"
		}
		hint = "ListGraphType<" + hint + ">"
	}
	if f.IsNonNullable {
		hint = "NonNullGraphType<" + hint + ">"
	}
	return hint
}

// FieldBinding returns the Field(...) statement binding f. Input fields
// always carry an explicit type hint; output scalars leave it to inference.
func FieldBinding(f *model.Field, isInput bool) string {
	var sb strings.Builder
	sb.WriteString("Field(")
	sb.WriteString(quote(f.Name))
	sb.WriteString(", x => x.")
	sb.WriteString(f.NativeName)

	switch {
	case isInput || !f.IsScalar:
		sb.WriteString(", type: typeof(")
		sb.WriteString(TypeHint(f))
		sb.WriteByte(')')
	case !f.IsNonNullable:
		sb.WriteString(", nullable: true")
	}

	sb.WriteString(");")
	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// P prints the arguments to the generated output.
func (g *Generator) P(str ...interface{}) {
	if len(str) > 0 {
		g.Write(g.indent)
	}
	for _, s := range str {
		switch v := s.(type) {
		case []byte:
			g.Write(v)
		case byte:
			g.WriteByte(v)
		case rune:
			g.WriteRune(v)
		case string:
			g.WriteString(v)
		default:
			fmt.Fprint(g, v)
		}
	}
	g.WriteByte('\n')
}

// In increases the indent.
func (g *Generator) In() {
	g.indent = append(g.indent, '\t')
}

// Out decreases the indent.
func (g *Generator) Out() {
	if len(g.indent) > 0 {
		g.indent = g.indent[:len(g.indent)-1]
	}
}

// getOptions returns the generator options given the option map from the CLI,
// along with the name of the schema source, if provided.
func getOptions(opts map[string]interface{}) (gOpts *Options, source string) {
	gOpts = new(Options)
	if opts != nil {
		gOpts.Namespace, _ = opts["namespace"].(string)
		gOpts.Client, _ = opts["client"].(string)
		source, _ = opts["source"].(string)
	}
	return gOpts.withDefaults(), source
}
