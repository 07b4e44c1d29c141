package model

import "strings"

// Ref is a type reference reduced to its base type and wrapper flags.
//
// Both schema compilers normalize their own wrapper encoding into a Ref:
//   - a non-null marker on the outermost type sets IsNonNullable
//   - any list marker sets IsArray; nested lists collapse into one
//   - a non-null marker directly on the base type inside a list sets IsElemNonNullable
//
// A Ref cannot describe nested lists, so [[Int]] is emitted like [Int].
type Ref struct {
	Name              string
	IsArray           bool
	IsNonNullable     bool
	IsElemNonNullable bool
}

// String returns the SDL form of the reference, e.g. [String!]!
func (r Ref) String() string {
	var b strings.Builder
	if r.IsArray {
		b.WriteByte('[')
	}
	b.WriteString(r.Name)
	if r.IsArray {
		if r.IsElemNonNullable {
			b.WriteByte('!')
		}
		b.WriteByte(']')
	}
	if r.IsNonNullable {
		b.WriteByte('!')
	}
	return b.String()
}
