package scalar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePairs(t *testing.T) {
	testCases := []struct {
		Name  string
		In    string
		Pairs []Pair
	}{
		{
			Name: "Empty",
			In:   "",
		},
		{
			Name:  "Single",
			In:    "ID=Guid",
			Pairs: []Pair{{Key: "ID", Val: "Guid"}},
		},
		{
			Name:  "Multi",
			In:    "ID=Guid,DateTime=DateTime?",
			Pairs: []Pair{{Key: "ID", Val: "Guid"}, {Key: "DateTime", Val: "DateTime?"}},
		},
		{
			Name: "MissingSeparator",
			In:   "ID",
		},
		{
			Name:  "MalformedAmongValid",
			In:    "ID,Int=long,Float",
			Pairs: []Pair{{Key: "Int", Val: "long"}},
		},
		{
			Name:  "EmptyKey",
			In:    "=long,Int=long",
			Pairs: []Pair{{Key: "Int", Val: "long"}},
		},
		{
			Name:  "Whitespace",
			In:    " ID = Guid , Int=long",
			Pairs: []Pair{{Key: "ID", Val: "Guid"}, {Key: "Int", Val: "long"}},
		},
		{
			Name:  "ValueWithEquals",
			In:    "Authorization=Bearer abc==",
			Pairs: []Pair{{Key: "Authorization", Val: "Bearer abc=="}},
		},
		{
			Name:  "CaseKept",
			In:    "id=Guid",
			Pairs: []Pair{{Key: "id", Val: "Guid"}},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(subT *testing.T) {
			assert.Equal(subT, testCase.Pairs, ParsePairs(testCase.In))
		})
	}
}

func TestMap_Resolve(t *testing.T) {
	t.Run("Builtins", func(subT *testing.T) {
		m := New()

		assert.Equal(subT, "string", m.Resolve("String"))
		assert.Equal(subT, "int", m.Resolve("Int"))
		assert.Equal(subT, "double", m.Resolve("Float"))
		assert.Equal(subT, "bool", m.Resolve("Boolean"))
		assert.Equal(subT, "string", m.Resolve("ID"))
	})

	t.Run("Passthrough", func(subT *testing.T) {
		m := New()

		assert.Equal(subT, "DateTime", m.Resolve("DateTime"))
		assert.False(subT, m.Has("DateTime"))
	})

	t.Run("OverrideBuiltin", func(subT *testing.T) {
		m := Parse("ID=Guid")

		assert.Equal(subT, "Guid", m.Resolve("ID"))
		assert.Equal(subT, "string", m.Resolve("String"))
	})

	t.Run("OverrideCustom", func(subT *testing.T) {
		m := Parse("DateTime=DateTimeOffset")

		assert.Equal(subT, "DateTimeOffset", m.Resolve("DateTime"))
		assert.True(subT, m.Has("DateTime"))
	})

	t.Run("MalformedDropped", func(subT *testing.T) {
		m := Parse("ID,Int=long")

		assert.Equal(subT, "string", m.Resolve("ID"))
		assert.Equal(subT, "long", m.Resolve("Int"))
	})

	t.Run("LaterWins", func(subT *testing.T) {
		m := Parse("ID=Guid,ID=long")

		assert.Equal(subT, "long", m.Resolve("ID"))
	})

	t.Run("NoCaseFolding", func(subT *testing.T) {
		m := Parse("id=Guid")

		assert.Equal(subT, "string", m.Resolve("ID"))
		assert.Equal(subT, "Guid", m.Resolve("id"))
	})

	t.Run("Independent", func(subT *testing.T) {
		a, b := Parse("ID=Guid"), New()

		assert.Equal(subT, "Guid", a.Resolve("ID"))
		assert.Equal(subT, "string", b.Resolve("ID"))
	})
}

func TestIsBuiltin(t *testing.T) {
	for _, name := range []string{"String", "Int", "Float", "Boolean", "ID"} {
		assert.True(t, IsBuiltin(name), name)
	}
	assert.False(t, IsBuiltin("DateTime"))
	assert.False(t, IsBuiltin("string"))
}
