package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"

	"ccline/internal/cli"
)

// main is the entrypoint for ccline.
func main() {
	var stdin io.Reader = os.Stdin
	// Run by hand without a pipe: render from the process directory instead
	// of waiting for input.
	if term.IsTerminal(os.Stdin.Fd()) {
		stdin = strings.NewReader("")
	}

	if err := run(stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(stdin io.Reader, outW, errW io.Writer, args []string) error {
	cmd := cli.NewRootCommand(stdin, outW, errW)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}
