// Package gen contains the contract between the schema compilers and
// the code generators.
package gen

//go:generate mockgen -write_package_comment=false -package=gen -destination=./mock.go github.com/gqlc/gqlcs/gen Generator

import (
	"context"
	"fmt"
	"io"

	"github.com/gqlc/gqlcs/model"
)

// Generator renders a compiled TypeModel into source code.
type Generator interface {
	// Generate writes the code for m into the GeneratorContext carried by ctx.
	Generate(ctx context.Context, m *model.TypeModel, opts map[string]interface{}) error
}

// GeneratorContext represents the directory to which
// the Generator is to write to.
type GeneratorContext interface {
	// Open opens a file in the GeneratorContext (i.e. directory).
	Open(filename string) (io.WriteCloser, error)
}

type genCtx string

var genCtxKey = genCtx("genCtx")

// WithContext returns a prepared context.Context
// with the given GeneratorContext.
func WithContext(ctx context.Context, gCtx GeneratorContext) context.Context {
	return context.WithValue(ctx, genCtxKey, gCtx)
}

// Context returns the generator context. It returns nil if ctx
// was not prepared with WithContext.
func Context(ctx context.Context) GeneratorContext {
	gCtx, _ := ctx.Value(genCtxKey).(GeneratorContext)
	return gCtx
}

// GeneratorError represents an error from a generator.
type GeneratorError struct {
	// Schema is the source of the model being generated.
	Schema string

	// GenName is the generator name which encountered a problem.
	GenName string

	// Msg is any message the generator wants to provide back to the caller.
	Msg string

	// Err is the underlying error, if any.
	Err error
}

func (e GeneratorError) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("gen: generator error occurred in %s:%s %s", e.GenName, e.Schema, msg)
}

// Unwrap returns the underlying error.
func (e GeneratorError) Unwrap() error { return e.Err }
