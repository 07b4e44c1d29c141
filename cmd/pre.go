package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func chainPreRunEs(preRunEs ...func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		for i := 0; i < len(preRunEs) && err == nil; i++ {
			err = preRunEs[i](cmd, args)
		}
		return
	}
}

// validateSource validates that the source is either a local path
// or a http(s) or ws(s) URL.
func validateSource(cmd *cobra.Command, args []string) error {
	for _, source := range args {
		if strings.TrimSpace(source) == "" {
			return fmt.Errorf("gqlcs: empty source")
		}

		u, err := url.Parse(source)
		if err != nil || u.Host == "" {
			continue
		}

		switch u.Scheme {
		case "http", "https", "ws", "wss":
		default:
			return fmt.Errorf("gqlcs: unsupported source scheme: %s", u.Scheme)
		}
	}

	return nil
}

// envPrefix prefixes every environment variable read by gqlcs, e.g. GQLCS_NAMESPACE.
const envPrefix = "GQLCS"

// loadConfig layers flags, environment and the optional config file into v.
// Precedence: flag over env over config file over default.
func loadConfig(fs afero.Fs, v *viper.Viper) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		v.SetFs(fs)
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()

		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		file, _ := cmd.Flags().GetString("config")
		if file == "" {
			return nil
		}

		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("gqlcs: read config file: %w", err)
		}
		return nil
	}
}

var newDevLogger = func() (*zap.Logger, error) { return zap.NewDevelopment() }

// setupLogger installs a development logger as the global zap logger
// when verbose is set. The returned func restores the previous one.
func setupLogger(verbose bool) func() {
	if !verbose {
		return func() {}
	}

	l, err := newDevLogger()
	if err != nil {
		return func() {}
	}

	undo := zap.ReplaceGlobals(l)
	return func() {
		l.Sync()
		undo()
	}
}
