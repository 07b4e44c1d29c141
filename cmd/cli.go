// Package cmd implements the command line interface for gqlcs.
package cmd

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/websocket"
	"github.com/gqlc/gqlcs/csharp"
	"github.com/gqlc/gqlcs/gen"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type option func(*CommandLine)

// WithFS configures the underlying afero.FS used to read/write files.
func WithFS(fs afero.Fs) option {
	return func(c *CommandLine) {
		c.fs = fs
	}
}

// WithGenerator replaces the C# generator.
func WithGenerator(g gen.Generator) option {
	return func(c *CommandLine) {
		c.g = g
	}
}

// WithHTTPClient configures the client used for HTTP introspection.
func WithHTTPClient(client *http.Client) option {
	return func(c *CommandLine) {
		c.client = client
	}
}

// WithDialer configures the dialer used for websocket introspection.
func WithDialer(dialer *websocket.Dialer) option {
	return func(c *CommandLine) {
		c.dialer = dialer
	}
}

// CommandLine runs the gqlcs pipeline: acquire a schema, compile it
// and hand the model to the generator.
type CommandLine struct {
	fs     afero.Fs
	g      gen.Generator
	client *http.Client
	dialer *websocket.Dialer

	cmds []cmder
}

type cmder interface {
	getCommand() *cobra.Command
}

type baseCmd struct {
	*cobra.Command
}

func (cmd *baseCmd) getCommand() *cobra.Command { return cmd.Command }

func (c *CommandLine) addCommand(cmds ...cmder) *CommandLine {
	c.cmds = append(c.cmds, cmds...)
	return c
}

func (c *CommandLine) build() *cobra.Command {
	cmd := c.newRootCmd()
	for _, cmdr := range c.cmds {
		cmd.AddCommand(cmdr.getCommand())
	}

	return cmd.Command
}

// NewCLI returns a CommandLine implementation.
func NewCLI(opts ...option) (c *CommandLine) {
	c = new(CommandLine)

	for _, opt := range opts {
		opt(c)
	}

	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}
	if c.g == nil {
		c.g = new(csharp.Generator)
	}
	if c.client == nil {
		c.client = http.DefaultClient
	}
	if c.dialer == nil {
		c.dialer = &websocket.Dialer{
			Proxy:        http.ProxyFromEnvironment,
			Subprotocols: []string{graphqlWS},
		}
	}

	return
}

func wrapPanic(err error, stack []byte) error {
	return fmt.Errorf("gqlcs: recovered from unexpected panic: %w\n\n%s", err, stack)
}

// Run executes the compiler. args[0] is the program name.
func (c *CommandLine) Run(args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()

			rerr, ok := r.(error)
			if ok {
				err = wrapPanic(rerr, stack)
				return
			}

			err = wrapPanic(fmt.Errorf("%#v", r), stack)
		}
	}()

	c.cmds = c.cmds[:0]
	cmd := c.addCommand(c.newVersionCmd()).build()

	cmd.SetArgs(args[1:])
	return cmd.Execute()
}
