package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/gqlc/gqlcs/gen"
	"github.com/gqlc/gqlcs/introspection"
	"github.com/gqlc/gqlcs/model"
	"github.com/gqlc/gqlcs/sdl"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	userGql = `type Query { me: User }
type User { id: ID! name: String age: Int }`

	userJSON = `{"data":{"__schema":{
  "queryType":{"name":"Query"},
  "types":[
    {"kind":"OBJECT","name":"Query","fields":[{"name":"me","type":{"kind":"OBJECT","name":"User"}}]},
    {"kind":"OBJECT","name":"User","fields":[
      {"name":"id","type":{"kind":"NON_NULL","ofType":{"kind":"SCALAR","name":"ID"}}},
      {"name":"name","type":{"kind":"SCALAR","name":"String"}},
      {"name":"age","type":{"kind":"SCALAR","name":"Int"}}
    ]},
    {"kind":"SCALAR","name":"ID"},
    {"kind":"SCALAR","name":"String"},
    {"kind":"SCALAR","name":"Int"}
  ]}}}`

	badGql = "type User {\n  id: ID!\n  name String\n}"
)

func newTestFs(t *testing.T) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/home/graphql", 0755))
	require.NoError(t, afero.WriteFile(fs, "/home/graphql/user.graphql", []byte(userGql), 0644))
	require.NoError(t, afero.WriteFile(fs, "/home/graphql/user.json", []byte(userJSON), 0644))
	require.NoError(t, afero.WriteFile(fs, "/home/graphql/bad.graphql", []byte(badGql), 0644))
	return fs
}

func newMockGenerator(t gomock.TestReporter) *gen.MockGenerator {
	return gen.NewMockGenerator(gomock.NewController(t))
}

func TestCli_Run(t *testing.T) {
	testCases := []struct {
		Name string
		Args []string
		Opts map[string]interface{}
	}{
		{
			Name: "SDL",
			Args: []string{"gqlcs", "/home/graphql/user.graphql"},
			Opts: map[string]interface{}{
				"namespace": "Generated",
				"client":    "GraphQLClient",
				"source":    "/home/graphql/user.graphql",
			},
		},
		{
			Name: "Introspection",
			Args: []string{"gqlcs", "-n", "Acme.Api", "--client=AcmeClient", "/home/graphql/user.json"},
			Opts: map[string]interface{}{
				"namespace": "Acme.Api",
				"client":    "AcmeClient",
				"source":    "/home/graphql/user.json",
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(subT *testing.T) {
			g := newMockGenerator(subT)
			g.EXPECT().
				Generate(gomock.Any(), gomock.Any(), testCase.Opts).
				DoAndReturn(func(ctx context.Context, m *model.TypeModel, opts map[string]interface{}) error {
					assert.NotNil(subT, gen.Context(ctx))
					assert.Equal(subT, []string{"Query", "User"}, m.Types.Names())
					return nil
				})

			c := NewCLI(WithFS(newTestFs(subT)), WithGenerator(g))
			require.NoError(subT, c.Run(testCase.Args))
		})
	}
}

func TestCli_RunFormatIndependent(t *testing.T) {
	fs := newTestFs(t)

	var models []*model.TypeModel
	g := newMockGenerator(t)
	g.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m *model.TypeModel, _ map[string]interface{}) error {
			models = append(models, m)
			return nil
		}).
		Times(2)

	c := NewCLI(WithFS(fs), WithGenerator(g))
	require.NoError(t, c.Run([]string{"gqlcs", "/home/graphql/user.graphql"}))
	require.NoError(t, c.Run([]string{"gqlcs", "/home/graphql/user.json"}))

	require.Len(t, models, 2)
	assert.Equal(t, models[0], models[1])
}

func TestCli_RunWritesOutput(t *testing.T) {
	fs := newTestFs(t)

	c := NewCLI(WithFS(fs))
	err := c.Run([]string{"gqlcs", "-n", "Users", "-s", "ID=Guid", "-o", "/out/cs", "/home/graphql/user.graphql"})
	require.NoError(t, err)

	b, err := afero.ReadFile(fs, "/out/cs/Users.cs")
	require.NoError(t, err)

	out := string(b)
	assert.Contains(t, out, "namespace Users\n")
	assert.Contains(t, out, "public Guid Id { get; set; }")
	assert.Contains(t, out, "public int? Age { get; set; }")
	assert.Contains(t, out, "public class GraphQLClient : Schema")
}

func TestCli_RunErrors(t *testing.T) {
	t.Run("MissingSource", func(subT *testing.T) {
		c := NewCLI(WithFS(newTestFs(subT)), WithGenerator(newMockGenerator(subT)))
		assert.Error(subT, c.Run([]string{"gqlcs"}))
	})

	t.Run("MissingFile", func(subT *testing.T) {
		c := NewCLI(WithFS(newTestFs(subT)), WithGenerator(newMockGenerator(subT)))

		err := c.Run([]string{"gqlcs", "/home/graphql/missing.graphql"})
		require.Error(subT, err)

		var aerr *AcquisitionError
		require.True(subT, errors.As(err, &aerr))
		assert.Equal(subT, "/home/graphql/missing.graphql", aerr.Source)
		assert.True(subT, errors.Is(err, os.ErrNotExist))
	})

	t.Run("ParseError", func(subT *testing.T) {
		fs := newTestFs(subT)
		c := NewCLI(WithFS(fs))

		err := c.Run([]string{"gqlcs", "-o", "/out", "/home/graphql/bad.graphql"})
		require.Error(subT, err)

		var perr *sdl.ParseError
		require.True(subT, errors.As(err, &perr))
		assert.Equal(subT, 3, perr.Line)

		exists, _ := afero.Exists(fs, "/out")
		assert.False(subT, exists, "no output is written on failure")
	})

	t.Run("FormatError", func(subT *testing.T) {
		fs := newTestFs(subT)
		require.NoError(subT, afero.WriteFile(fs, "/home/graphql/bad.json", []byte(`{"data":{}}`), 0644))
		c := NewCLI(WithFS(fs))

		err := c.Run([]string{"gqlcs", "-o", "/out", "/home/graphql/bad.json"})
		require.Error(subT, err)

		var ferr *introspection.FormatError
		require.True(subT, errors.As(err, &ferr))

		exists, _ := afero.Exists(fs, "/out")
		assert.False(subT, exists)
	})

	t.Run("GeneratorError", func(subT *testing.T) {
		cause := errors.New("boom")
		g := newMockGenerator(subT)
		g.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).Return(cause)

		c := NewCLI(WithFS(newTestFs(subT)), WithGenerator(g))
		err := c.Run([]string{"gqlcs", "/home/graphql/user.graphql"})
		assert.True(subT, errors.Is(err, cause))
	})

	t.Run("Panic", func(subT *testing.T) {
		g := newMockGenerator(subT)
		g.EXPECT().
			Generate(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, *model.TypeModel, map[string]interface{}) error {
				panic(errors.New("unexpected"))
			})

		c := NewCLI(WithFS(newTestFs(subT)), WithGenerator(g))
		err := c.Run([]string{"gqlcs", "/home/graphql/user.graphql"})
		require.Error(subT, err)
		assert.Contains(subT, err.Error(), "gqlcs: recovered from unexpected panic: unexpected")
	})
}

func TestCli_Config(t *testing.T) {
	const configFile = "/etc/gqlcs/config.yaml"

	newFs := func(t *testing.T) afero.Fs {
		fs := newTestFs(t)
		require.NoError(t, fs.MkdirAll(filepath.Dir(configFile), 0755))
		require.NoError(t, afero.WriteFile(fs, configFile, []byte("namespace: FromFile\nclient: FileClient\nout: /file/out\n"), 0644))
		return fs
	}

	expectOpts := func(t *testing.T, namespace, client string) *gen.MockGenerator {
		g := newMockGenerator(t)
		g.EXPECT().
			Generate(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *model.TypeModel, opts map[string]interface{}) error {
				assert.Equal(t, namespace, opts["namespace"])
				assert.Equal(t, client, opts["client"])
				return nil
			})
		return g
	}

	t.Run("File", func(subT *testing.T) {
		g := expectOpts(subT, "FromFile", "FileClient")

		c := NewCLI(WithFS(newFs(subT)), WithGenerator(g))
		require.NoError(subT, c.Run([]string{"gqlcs", "--config", configFile, "/home/graphql/user.graphql"}))
	})

	t.Run("EnvOverFile", func(subT *testing.T) {
		subT.Setenv("GQLCS_CLIENT", "EnvClient")
		g := expectOpts(subT, "FromFile", "EnvClient")

		c := NewCLI(WithFS(newFs(subT)), WithGenerator(g))
		require.NoError(subT, c.Run([]string{"gqlcs", "--config", configFile, "/home/graphql/user.graphql"}))
	})

	t.Run("FlagOverEnv", func(subT *testing.T) {
		subT.Setenv("GQLCS_CLIENT", "EnvClient")
		g := expectOpts(subT, "FromFlag", "FlagClient")

		c := NewCLI(WithFS(newFs(subT)), WithGenerator(g))
		require.NoError(subT, c.Run([]string{"gqlcs", "--config", configFile, "-n", "FromFlag", "-c", "FlagClient", "/home/graphql/user.graphql"}))
	})

	t.Run("MissingFile", func(subT *testing.T) {
		c := NewCLI(WithFS(newTestFs(subT)), WithGenerator(newMockGenerator(subT)))

		err := c.Run([]string{"gqlcs", "--config", "/missing.yaml", "/home/graphql/user.graphql"})
		require.Error(subT, err)
		assert.Contains(subT, err.Error(), "read config file")
	})
}

func TestCli_VerboseLogsMalformedHeaders(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	orig := newDevLogger
	newDevLogger = func() (*zap.Logger, error) { return zap.New(core), nil }
	defer func() { newDevLogger = orig }()

	g := newMockGenerator(t)
	g.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	c := NewCLI(WithFS(newTestFs(t)), WithGenerator(g))
	err := c.Run([]string{"gqlcs", "-v", "-H", "X-Trace=1,broken", "/home/graphql/user.graphql"})
	require.NoError(t, err)

	entries := logs.FilterMessage("dropping malformed pair").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "broken", entries[0].ContextMap()["pair"])
}

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer

	cmd := NewCLI().newVersionCmd().getCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "gqlcs dev\n", buf.String())
}
