package cmd

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/butter-bot-machines/cfile/pkg/fs"
)

func catCommand(c *CLI) *cli.Command {
	return &cli.Command{
		Name:      "cat",
		Usage:     "copy a file to standard output",
		ArgsUsage: "NAME",
		Action: func(ctx *cli.Context) error {
			name, err := oneArg(ctx)
			if err != nil {
				return err
			}
			return c.Cat(name)
		},
	}
}

func putCommand(c *CLI) *cli.Command {
	return &cli.Command{
		Name:      "put",
		Usage:     "create a file from standard input",
		ArgsUsage: "NAME",
		Action: func(ctx *cli.Context) error {
			name, err := oneArg(ctx)
			if err != nil {
				return err
			}
			return c.Put(name)
		},
	}
}

func sizeCommand(c *CLI) *cli.Command {
	return &cli.Command{
		Name:      "size",
		Usage:     "print the size of a file in bytes",
		ArgsUsage: "NAME",
		Action: func(ctx *cli.Context) error {
			name, err := oneArg(ctx)
			if err != nil {
				return err
			}
			return c.Size(name)
		},
	}
}

func readCommand(c *CLI) *cli.Command {
	return &cli.Command{
		Name:      "read",
		Usage:     "hex dump a range of a file",
		ArgsUsage: "NAME",
		Flags: []cli.Flag{
			&cli.Uint64Flag{Name: "offset", Aliases: []string{"o"}, Usage: "position to start at"},
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 256, Usage: "maximum number of bytes"},
		},
		Action: func(ctx *cli.Context) error {
			name, err := oneArg(ctx)
			if err != nil {
				return err
			}
			return c.Read(name, ctx.Uint64("offset"), ctx.Int("count"))
		},
	}
}

func oneArg(ctx *cli.Context) (string, error) {
	if ctx.NArg() != 1 {
		return "", fmt.Errorf("%s expects exactly one NAME argument", ctx.Command.Name)
	}
	return ctx.Args().First(), nil
}

// Cat copies the named file to the output
func (c *CLI) Cat(name string) error {
	f, err := fs.OpenReadOnly(c.provider, name)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := io.Copy(c.out, fs.Reader(f))
	if err != nil {
		return fmt.Errorf("cat failed: %w", err)
	}
	c.logger.Debug("cat", "name", name, "bytes", n)
	return nil
}

// Put creates the named file from the input
func (c *CLI) Put(name string) error {
	f, err := c.provider.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := io.Copy(f, c.in)
	if err != nil {
		return fmt.Errorf("put failed after %d bytes: %w", n, err)
	}
	c.logger.Debug("put", "name", name, "bytes", n)
	return nil
}

// Size prints the size of the named file
func (c *CLI) Size(name string) error {
	f, err := fs.OpenReadOnly(c.provider, name)
	if err != nil {
		return err
	}
	defer f.Close()

	size, err := f.SizeOf()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, size)
	return nil
}

// Read hex dumps up to count bytes starting at offset
func (c *CLI) Read(name string, offset uint64, count int) error {
	if count < 0 {
		return fmt.Errorf("count must not be negative, got %d", count)
	}

	f, err := fs.OpenReadOnly(c.provider, name)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SetCursor(offset); err != nil {
		return fmt.Errorf("offset %d: %w", offset, err)
	}

	dump := hex.Dumper(c.out)
	_, err = io.Copy(dump, io.LimitReader(fs.Reader(f), int64(count)))
	if cerr := dump.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}
	return nil
}
