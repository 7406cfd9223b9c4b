package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/butter-bot-machines/cfile/pkg/errno"
)

func errnoCommand(c *CLI) *cli.Command {
	return &cli.Command{
		Name:      "errno",
		Usage:     "list error numbers, or describe the ones given",
		ArgsUsage: "[NAME...]",
		Action: func(ctx *cli.Context) error {
			return c.Errno(ctx.Args().Slice())
		},
	}
}

func configCommand(c *CLI) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "inspect or write the configuration file",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "print the effective configuration",
				Action: func(ctx *cli.Context) error {
					data, err := c.config.Get().Marshal()
					if err != nil {
						return err
					}
					_, err = c.out.Write(data)
					return err
				},
			},
			{
				Name:  "init",
				Usage: "write the effective configuration to the --config path",
				Action: func(ctx *cli.Context) error {
					if err := c.config.Save(); err != nil {
						return err
					}
					fmt.Fprintf(c.out, "Wrote %s\n", c.config.Path())
					return nil
				},
			},
		},
	}
}

func versionCommand(c *CLI) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the version",
		Action: func(ctx *cli.Context) error {
			fmt.Fprintf(c.out, "cfile version %s\n", Version)
			return nil
		},
	}
}

// Errno prints each named number, or the whole table when names is empty
func (c *CLI) Errno(names []string) error {
	numbers := errno.Numbers()
	if len(names) > 0 {
		numbers = numbers[:0]
		for _, name := range names {
			n, err := errno.Parse(name)
			if err != nil {
				return err
			}
			numbers = append(numbers, n)
		}
	}

	for _, n := range numbers {
		fmt.Fprintf(c.out, "%-16s %s\n", n, n.Description())
	}
	return nil
}
