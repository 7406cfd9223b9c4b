package cmd

import (
	"context"
	"fmt"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/urfave/cli/v2"

	"github.com/butter-bot-machines/cfile/pkg/config"
	"github.com/butter-bot-machines/cfile/pkg/fs"
	"github.com/butter-bot-machines/cfile/pkg/watcher"
)

func followCommand(c *CLI) *cli.Command {
	return &cli.Command{
		Name:      "follow",
		Usage:     "print a file and keep printing what is appended to it",
		ArgsUsage: "NAME",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "timeout", Usage: "stop after this long (0 runs until interrupted)"},
		},
		Action: func(ctx *cli.Context) error {
			name, err := oneArg(ctx)
			if err != nil {
				return err
			}
			return c.Follow(ctx.Context, name, ctx.Duration("timeout"))
		},
	}
}

// Follow prints the named file, then what is appended to it, until ctx is
// done, the timeout passes or the file is removed. A truncated file is
// printed again from the start.
func (c *CLI) Follow(ctx context.Context, name string, timeout time.Duration) error {
	cfg := c.config.Get()
	if cfg.Provider == config.ProviderMemory {
		return fmt.Errorf("follow needs an on-disk provider, not %s", cfg.Provider)
	}

	path, err := securejoin.SecureJoin(cfg.Root, name)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", name, err)
	}

	f, err := fs.OpenReadOnly(c.provider, name)
	if err != nil {
		return err
	}
	defer f.Close()

	source, err := watcher.NewSource(path)
	if err != nil {
		return err
	}
	defer source.Close()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	c.logger.Info("following file", "name", name, "path", path)
	follower := watcher.NewFollower(f, c.out, source, &watcher.Options{
		Debounce: cfg.Follow.Debounce,
		MaxDelay: cfg.Follow.MaxDelay,
		Logger:   c.logger,
	})
	return follower.Run(ctx)
}
