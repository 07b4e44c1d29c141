// Package scalar maps GraphQL scalar names to native C# type names.
//
// A Map is built once per compilation from the builtin defaults plus any
// user supplied overrides and is read-only afterwards.
package scalar

import (
	"strings"

	"go.uber.org/zap"
)

// Builtin GraphQL scalars and their default native types.
var builtins = [...]Pair{
	{Key: "String", Val: "string"},
	{Key: "Int", Val: "int"},
	{Key: "Float", Val: "double"},
	{Key: "Boolean", Val: "bool"},
	{Key: "ID", Val: "string"},
}

// IsBuiltin reports whether name is one of the five standard GraphQL scalars.
func IsBuiltin(name string) bool {
	for _, b := range builtins {
		if b.Key == name {
			return true
		}
	}
	return false
}

// Map resolves schema scalar names to native type names.
type Map struct {
	types map[string]string
}

// New returns a Map seeded with the builtin defaults.
// Overrides take precedence over builtins; later overrides win.
func New(overrides ...Pair) *Map {
	m := &Map{types: make(map[string]string, len(builtins)+len(overrides))}
	for _, b := range builtins {
		m.types[b.Key] = b.Val
	}
	for _, o := range overrides {
		m.types[o.Key] = o.Val
	}
	return m
}

// Parse returns a Map with the overrides given in the Key1=Val1,Key2=Val2 format.
// Malformed pairs are dropped.
func Parse(overrides string) *Map {
	return New(ParsePairs(overrides)...)
}

// Resolve returns the native type for the given scalar. Unmapped scalars
// resolve to their own name.
func (m *Map) Resolve(name string) string {
	if v, ok := m.types[name]; ok {
		return v
	}
	return name
}

// Has reports whether the scalar has an explicit mapping.
func (m *Map) Has(name string) bool {
	_, ok := m.types[name]
	return ok
}

// Pair is a single key=value item.
type Pair struct {
	Key string
	Val string
}

// ParsePairs parses a string formatted as: a=1,b=2
//
// Items without a '=' or with an empty key are silently dropped.
// Values are split at the first '=', so b=x=y yields the value x=y.
func ParsePairs(s string) (pairs []Pair) {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	for _, item := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(item, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			zap.L().Named("scalar").Debug("dropping malformed pair", zap.String("pair", item))
			continue
		}

		pairs = append(pairs, Pair{Key: k, Val: strings.TrimSpace(v)})
	}
	return
}
