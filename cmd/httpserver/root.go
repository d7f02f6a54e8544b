package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xaitan80/minihttpd/internal/config"
	"github.com/xaitan80/minihttpd/internal/logging"
	"github.com/xaitan80/minihttpd/internal/server"
	"github.com/xaitan80/minihttpd/internal/version"
)

type rootOptions struct {
	configPath  string
	address     string
	directory   string
	debug       bool
	noColor     bool
	showVersion bool
}

// newRootCmd creates the root command for minihttpd
func newRootCmd() *cobra.Command {
	return newRootCmdWithOptions(&rootOptions{})
}

// newRootCmdWithOptions binds the command's flags to opts.
func newRootCmdWithOptions(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   version.AppName,
		Short: version.Description,
		Long: fmt.Sprintf(`%s - %s

Serves GET /, GET /user-agent, GET /echo/<text>, GET /files/<name>
and POST /files/<name>, one request per connection.
`, version.AppName, version.Description),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetVersionInfo())
				return nil
			}
			if opts.noColor {
				color.NoColor = true
			}

			cfg, err := opts.resolveConfig(cmd)
			if err != nil {
				return err
			}

			logger, closer := logging.New(cfg.Logging, opts.debug)
			defer closer.Close()
			logger.Debug().Str("version", version.Version).Msg("starting " + version.AppName)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			banner := color.New(color.FgGreen, color.Bold)
			return server.Run(ctx, cfg, logger, func(addr net.Addr) {
				banner.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)
			})
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVarP(&opts.address, "address", "a", "", "host:port to listen on (overrides config)")
	flags.StringVarP(&opts.directory, "directory", "d", "", "directory served under /files/ (overrides config)")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&opts.showVersion, "version", "v", false, "print version information and exit")

	return rootCmd
}

// resolveConfig loads the config file, if any, and applies flag overrides.
func (o *rootOptions) resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.LoadDefault()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("address") {
		cfg.Server.Address = o.address
	}
	if flags.Changed("directory") {
		cfg.Files.Directory = o.directory
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
