package cmd

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/butter-bot-machines/cfile/pkg/service"
)

const shellHelp = `commands:
  open NAME          open an existing file
  create NAME        create or truncate a file
  read ID COUNT      read up to COUNT bytes (hex encoded)
  write ID TEXT      write the rest of the line
  seek ID POS        move the file pointer
  pos ID             print the file pointer
  size ID            print the file size
  close ID           release a handle
  handles            list open handles
  help               show this text
  quit               close every handle and exit`

func shellCommand(c *CLI) *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "drive file handles with line commands read from standard input",
		Description: "Each line is one command. Replies start with \"ok\" or \"err\".\n\n" +
			shellHelp,
		Action: func(ctx *cli.Context) error {
			return c.Shell()
		},
	}
}

// Shell runs the line protocol on the input until quit or end of input
func (c *CLI) Shell() error {
	srv := service.New(c.provider, &service.Options{
		MaxHandles: c.config.Get().Service.MaxHandles,
		Logger:     c.logger.WithGroup("service"),
	})
	defer srv.CloseAll()

	sh := &shell{srv: srv, out: c.out}
	scanner := bufio.NewScanner(c.in)
	scanner.Buffer(make([]byte, 64*1024), service.MaxReadSize)
	for scanner.Scan() {
		if !sh.exec(scanner.Text()) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read commands: %w", err)
	}
	return nil
}

type shell struct {
	srv *service.Server
	out io.Writer
}

// exec runs one line and reports whether the session continues
func (sh *shell) exec(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return true
	}

	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch verb {
	case "quit", "exit":
		sh.ok()
		return false
	case "help":
		fmt.Fprintln(sh.out, shellHelp)
		sh.ok()
	case "open":
		sh.reply(sh.open(rest, sh.srv.Open))
	case "create":
		sh.reply(sh.open(rest, sh.srv.Create))
	case "read":
		sh.reply(sh.read(rest))
	case "write":
		sh.reply(sh.write(rest))
	case "seek":
		sh.reply(sh.seek(rest))
	case "pos":
		sh.reply(sh.query(rest, sh.srv.FilePointer))
	case "size":
		sh.reply(sh.query(rest, sh.srv.SizeOf))
	case "close":
		sh.reply(sh.close(rest))
	case "handles":
		sh.reply(sh.handles())
	default:
		sh.fail(fmt.Errorf("unknown command %q", verb))
	}
	return true
}

func (sh *shell) reply(result string, err error) {
	if err != nil {
		sh.fail(err)
		return
	}
	if result == "" {
		sh.ok()
		return
	}
	fmt.Fprintf(sh.out, "ok %s\n", result)
}

func (sh *shell) ok() {
	fmt.Fprintln(sh.out, "ok")
}

func (sh *shell) fail(err error) {
	fmt.Fprintf(sh.out, "err %v\n", err)
}

func (sh *shell) open(name string, open func(string) (service.HandleID, error)) (string, error) {
	if name == "" {
		return "", fmt.Errorf("usage: open|create NAME")
	}
	id, err := open(name)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(int64(id), 10), nil
}

func (sh *shell) read(args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", fmt.Errorf("usage: read ID COUNT")
	}
	id, err := parseID(fields[0])
	if err != nil {
		return "", err
	}
	count, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", fmt.Errorf("invalid count %q", fields[1])
	}

	data, err := sh.srv.Read(id, count)
	if err != nil {
		return "", fmt.Errorf("%d bytes read: %w", len(data), err)
	}
	if len(data) == 0 {
		return "0", nil
	}
	return fmt.Sprintf("%d %s", len(data), hex.EncodeToString(data)), nil
}

func (sh *shell) write(args string) (string, error) {
	idText, text, found := strings.Cut(args, " ")
	if idText == "" {
		return "", fmt.Errorf("usage: write ID TEXT")
	}
	id, err := parseID(idText)
	if err != nil {
		return "", err
	}
	if !found {
		text = ""
	}

	n, err := sh.srv.Write(id, []byte(text))
	if err != nil {
		return "", fmt.Errorf("%d bytes written: %w", n, err)
	}
	return strconv.Itoa(n), nil
}

func (sh *shell) seek(args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", fmt.Errorf("usage: seek ID POS")
	}
	id, err := parseID(fields[0])
	if err != nil {
		return "", err
	}
	pos, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid position %q", fields[1])
	}
	return "", sh.srv.SetFilePointer(id, pos)
}

func (sh *shell) query(args string, get func(service.HandleID) (uint64, error)) (string, error) {
	id, err := parseID(args)
	if err != nil {
		return "", err
	}
	v, err := get(id)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(v, 10), nil
}

func (sh *shell) close(args string) (string, error) {
	id, err := parseID(args)
	if err != nil {
		return "", err
	}
	return "", sh.srv.Close(id)
}

func (sh *shell) handles() (string, error) {
	infos := sh.srv.Handles()
	parts := make([]string, 0, len(infos)+1)
	parts = append(parts, strconv.Itoa(len(infos)))
	for _, info := range infos {
		parts = append(parts, fmt.Sprintf("%d:%s@%d", info.ID, info.Name, info.Cursor))
	}
	return strings.Join(parts, " "), nil
}

func parseID(s string) (service.HandleID, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid handle %q", s)
	}
	return service.HandleID(id), nil
}
