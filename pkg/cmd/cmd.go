// Package cmd implements the cfile command-line interface.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/butter-bot-machines/cfile/pkg/config"
	"github.com/butter-bot-machines/cfile/pkg/config/env"
	"github.com/butter-bot-machines/cfile/pkg/fs"
	"github.com/butter-bot-machines/cfile/pkg/logging"
	slogging "github.com/butter-bot-machines/cfile/pkg/logging/slog"
)

const Version = "0.1.0"

// DefaultConfigPath is read when --config is not given
const DefaultConfigPath = "cfile.yaml"

// CLI represents the command-line interface
type CLI struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	env    config.Environment

	config   *config.Manager
	logger   logging.Logger
	provider fs.Provider
}

// NewCLI creates a CLI bound to the process streams and environment
func NewCLI() *CLI {
	return New(os.Stdin, os.Stdout, os.Stderr, env.New())
}

// New creates a CLI with explicit streams and environment
func New(in io.Reader, out, errOut io.Writer, environment config.Environment) *CLI {
	return &CLI{
		in:     in,
		out:    out,
		errOut: errOut,
		env:    environment,
	}
}

// Run executes the CLI with the given arguments, not including the program name
func (c *CLI) Run(args []string) error {
	return c.RunContext(context.Background(), args)
}

// RunContext is Run with a context that stops long-running commands
func (c *CLI) RunContext(ctx context.Context, args []string) error {
	return c.app().RunContext(ctx, append([]string{"cfile"}, args...))
}

func (c *CLI) app() *cli.App {
	return &cli.App{
		Name:      "cfile",
		Usage:     "read and write files through cursor-based handles",
		Version:   Version,
		Reader:    c.in,
		Writer:    c.out,
		ErrWriter: c.errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: DefaultConfigPath, Usage: "configuration file"},
			&cli.StringFlag{Name: "root", Usage: "directory names are resolved under"},
			&cli.StringFlag{Name: "provider", Usage: "file provider (local, billy-os, memory)"},
			&cli.StringFlag{Name: "log-level", Usage: "log level (debug, info, warn, error)"},
			&cli.StringFlag{Name: "log-format", Usage: "log format (auto, json, text)"},
		},
		Before: c.setup,
		Action: func(ctx *cli.Context) error {
			if ctx.Args().Present() {
				return fmt.Errorf("unknown command: %s", ctx.Args().First())
			}
			return fmt.Errorf("expected a command, see 'cfile help'")
		},
		// main reports errors and picks the exit status
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			catCommand(c),
			putCommand(c),
			sizeCommand(c),
			readCommand(c),
			followCommand(c),
			shellCommand(c),
			errnoCommand(c),
			configCommand(c),
			versionCommand(c),
		},
	}
}

// setup loads the configuration, applies flag overrides and builds the
// logger and provider every command uses
func (c *CLI) setup(ctx *cli.Context) error {
	c.config = config.NewManager(ctx.String("config"))
	if err := c.config.Load(c.env); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg := c.config.Get()
	if v := ctx.String("root"); v != "" {
		cfg.Root = v
	}
	if v := ctx.String("provider"); v != "" {
		cfg.Provider = config.ParseProviderKind(v)
	}
	if v := ctx.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v := ctx.String("log-format"); v != "" {
		cfg.Log.Format = v
	}
	if err := c.config.Set(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	opts, err := cfg.LoggerOptions(c.errOut)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	c.logger = slogging.New(opts)

	c.provider, err = config.NewProvider(cfg)
	if err != nil {
		return err
	}
	c.logger.Debug("configuration loaded",
		"path", c.config.Path(),
		"root", cfg.Root,
		"provider", string(cfg.Provider))
	return nil
}
