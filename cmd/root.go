package cmd

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/gqlc/gqlcs/compiler"
	"github.com/gqlc/gqlcs/gen"
	"github.com/gqlc/gqlcs/scalar"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultNamespace = "Generated"
	defaultClient    = "GraphQLClient"
	defaultOut       = "output"
	defaultTimeout   = 30 * time.Second
)

type rootCmd struct {
	*baseCmd

	headers pairsFlag
	v       *viper.Viper
}

func (c *CommandLine) newRootCmd() *rootCmd {
	rc := &rootCmd{
		baseCmd: &baseCmd{Command: &cobra.Command{
			Use:   "gqlcs [flags] source",
			Short: "A GraphQL schema to C# compiler",
			Long: `gqlcs compiles a GraphQL schema into C# data classes and
GraphQL.NET type bindings.

The source is either a local file or a URL. Local .json files and
remote endpoints are read as introspection results, everything else
as GraphQL SDL. Remote .graphql, .gql, .graphqls and .json files are
downloaded as is; any other http(s) or ws(s) URL is introspected.`,
			Example:       "gqlcs -n Acme.Api -s DateTime=DateTimeOffset,ID=Guid -o ./Generated https://api.example.com/graphql",
			Args:          cobra.ExactArgs(1),
			SilenceErrors: true,
			SilenceUsage:  true,
		}},
		v: viper.New(),
	}

	flags := rc.Flags()
	flags.VarP(&rc.headers, "headers", "H", "HTTP headers sent with introspection requests, as Key1=Val1,Key2=Val2. May be repeated.")
	flags.StringP("namespace", "n", defaultNamespace, "C# namespace of the generated code, also names the output file")
	flags.StringP("client", "c", defaultClient, "Name of the generated schema class")
	flags.StringP("scalars", "s", "", "Scalar mappings, as Scalar1=Type1,Scalar2=Type2")
	flags.StringP("out", "o", defaultOut, "Output directory")
	flags.Duration("timeout", defaultTimeout, "Timeout for fetching remote schemas")
	flags.String("config", "", "Config file (yaml, json or toml)")
	flags.BoolP("verbose", "v", false, "Output logging")

	for _, name := range []string{"namespace", "client", "out"} {
		flags.SetAnnotation(name, flagGroup, []string{outputGroup})
	}

	rc.SetUsageTemplate(usageTmpl)
	rc.PreRunE = chainPreRunEs(
		validateSource,
		loadConfig(c.fs, rc.v),
	)
	rc.RunE = c.root(rc.v)
	return rc
}

// config is the resolved configuration of a run.
type config struct {
	Source    string
	Headers   []scalar.Pair
	Namespace string
	Client    string
	Scalars   string
	Out       string
	Timeout   time.Duration
	Verbose   bool
}

func newConfig(v *viper.Viper, source string) *config {
	return &config{
		Source:    source,
		Headers:   scalar.ParsePairs(v.GetString("headers")),
		Namespace: v.GetString("namespace"),
		Client:    v.GetString("client"),
		Scalars:   v.GetString("scalars"),
		Out:       v.GetString("out"),
		Timeout:   v.GetDuration("timeout"),
		Verbose:   v.GetBool("verbose"),
	}
}

func (c *CommandLine) root(v *viper.Viper) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		restore := setupLogger(v.GetBool("verbose"))
		defer restore()

		cfg := newConfig(v, args[0])

		log := zap.L().Named("cmd")
		log.Debug("resolved configuration", zap.Any("config", cfg))

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		src, form, err := c.acquire(ctx, cfg)
		if err != nil {
			return err
		}
		log.Info("acquired schema", zap.String("source", cfg.Source), zap.Stringer("form", form), zap.Int("bytes", len(src)))

		m, err := compiler.Compile(form, filepath.Base(cfg.Source), src, scalar.Parse(cfg.Scalars))
		if err != nil {
			return err
		}
		log.Info("compiled schema",
			zap.Int("types", m.Types.Len()),
			zap.Int("inputs", m.Inputs.Len()),
			zap.Int("enums", m.Enums.Len()),
		)

		ctx = gen.WithContext(ctx, &genCtx{fs: c.fs, dir: cfg.Out})
		return c.g.Generate(ctx, m, map[string]interface{}{
			"namespace": cfg.Namespace,
			"client":    cfg.Client,
			"source":    cfg.Source,
		})
	}
}

// genCtx writes generated files below dir. A file is only written to the
// file system when it is closed, so failed generation leaves nothing behind.
type genCtx struct {
	fs  afero.Fs
	dir string
}

func (ctx *genCtx) Open(name string) (io.WriteCloser, error) {
	return &outFile{fs: ctx.fs, dir: ctx.dir, name: filepath.Join(ctx.dir, name)}, nil
}

type outFile struct {
	bytes.Buffer

	fs   afero.Fs
	dir  string
	name string
}

func (f *outFile) Close() error {
	if err := f.fs.MkdirAll(f.dir, 0755); err != nil {
		return err
	}

	zap.L().Named("cmd").Info("writing file", zap.String("name", f.name))
	return afero.WriteFile(f.fs, f.name, f.Bytes(), 0644)
}
