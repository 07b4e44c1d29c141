// Package compiler selects the schema compiler for a source document.
package compiler

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/gqlc/gqlcs/introspection"
	"github.com/gqlc/gqlcs/model"
	"github.com/gqlc/gqlcs/scalar"
	"github.com/gqlc/gqlcs/sdl"
)

// Form is the format of a schema document.
type Form uint8

const (
	// SDL is GraphQL Schema Definition Language text.
	SDL Form = iota

	// Introspection is the JSON result of an introspection query.
	Introspection
)

func (f Form) String() string {
	if f == Introspection {
		return "introspection"
	}
	return "sdl"
}

// Detect returns the form of a document given its file path or URL.
// Documents with a .json extension are introspection results,
// everything else is SDL.
func Detect(name string) Form {
	p := name
	if u, err := url.Parse(name); err == nil && u.Scheme != "" && u.Host != "" {
		p = u.Path
	}

	if strings.EqualFold(path.Ext(p), ".json") {
		return Introspection
	}
	return SDL
}

// Compile compiles src with the compiler for the given form.
func Compile(form Form, name string, src []byte, scalars *scalar.Map) (*model.TypeModel, error) {
	switch form {
	case SDL:
		return sdl.Compile(name, string(src), scalars)
	case Introspection:
		return introspection.Compile(src, scalars)
	}
	return nil, fmt.Errorf("compiler: unknown schema form: %d", form)
}
