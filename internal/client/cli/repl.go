package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Me(ctx context.Context) error
	OnDuty(ctx context.Context) error
	Report(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  start              start your duty session
  stop               end your duty session
  me                 show your total time and status
  onduty             list who is on duty (admin)
  report <id> [n]    show a user's report with the last n sessions (admin)
  help               show this help
  exit | quit        leave the program`

// runREPL reads commands line by line and dispatches them to a. Command
// errors are printed and the loop continues. It returns on EOF or on
// "exit"/"quit". The prompt is only printed when prompt is true.
func runREPL(ctx context.Context, a execIface, prompt bool, scanner *bufio.Scanner) {
	for {
		if prompt {
			printlnFn("duty> ")
		}
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(helpText)

		case "start":
			err = a.Start(ctx)

		case "stop":
			err = a.Stop(ctx)

		case "me", "status":
			err = a.Me(ctx)

		case "onduty":
			err = a.OnDuty(ctx)

		case "report":
			err = a.Report(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn(describeError(err))
		}
	}
}

// Root runs the REPL on the app's input until the user exits.
func (a *App) Root(ctx context.Context) {
	prompt := interactive(a.in)
	if prompt {
		printlnFn("Welcome to dutybadge (type 'help' for commands)")
	}
	runREPL(ctx, a, prompt, bufio.NewScanner(a.in))
}
