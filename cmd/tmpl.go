package cmd

import (
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	flagGroup   = "group"
	outputGroup = "output"
)

const usageTmpl = `Usage:
  gqlcs [flags] source
  gqlcs [command]{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{$outflags := filter .LocalFlags "output" true}}{{if gt (len $outflags.FlagUsages) 0}}

Output Flags:
{{$outflags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{$exflags := filter .LocalFlags "output" false}}{{if gt (len $exflags.FlagUsages) 0}}

General Flags:
{{$exflags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasExample}}

Example:
	{{.Example}}{{end}}
`

// filterFlags returns the flags which are (ex) or are not (!ex)
// annotated as belonging to group.
func filterFlags(set *pflag.FlagSet, group string, ex bool) *pflag.FlagSet {
	fs := new(pflag.FlagSet)
	set.VisitAll(func(flag *pflag.Flag) {
		inGroup := false
		for _, g := range flag.Annotations[flagGroup] {
			if strings.EqualFold(g, group) {
				inGroup = true
			}
		}

		if inGroup == ex {
			fs.AddFlag(flag)
		}
	})
	return fs
}

func init() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"filter": filterFlags,
	})
}
