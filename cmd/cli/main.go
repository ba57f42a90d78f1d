package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"bank-records-api/internal/config"
	"bank-records-api/internal/kvstore"
	"bank-records-api/internal/logger"
	"bank-records-api/internal/service"
)

const usage = `Usage: cli [-yes] <screen> <command> [arguments]

Screens and commands:
  customers    list | show <id> | add <name> <email> <phone> | edit <id> <name> <email> <phone> | delete <id>
  accounts     list | show <id> | add <number> <customer_id> [balance] | edit <id> <number> <customer_id> | delete <id>
  cards        list | show <id> | add <card_number> <account_id> | edit <id> <card_number> <account_id> | delete <id>
  transactions list | show <id> | deposit <card_id> <amount> | withdraw <card_id> <amount>
               | reverse <id> | edit <id> | delete <id>
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	yes := fs.Bool("yes", false, "answer yes to every confirmation prompt")
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "Failed to load configuration:", err)
		return 1
	}

	ctx := context.Background()
	store, closeStore, err := kvstore.Open(ctx, cfg.Store)
	if err != nil {
		fmt.Fprintln(stderr, "Failed to open store:", err)
		return 1
	}
	defer closeStore()

	a, err := newApp(ctx, store, slog.New(logger.NewHandler(stderr, cfg.Logger)), stdout, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "Failed to load records:", err)
		return 1
	}
	a.confirm = newConfirmer(*yes, stdin, stdout)

	return a.dispatch(ctx, fs.Args())
}

// newConfirmer asks on the terminal when stdin is one. Without a terminal
// nothing can be confirmed unless -yes was given.
func newConfirmer(yes bool, stdin io.Reader, stdout io.Writer) service.Confirmer {
	if yes {
		return service.AlwaysConfirm
	}

	f, ok := stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return service.NeverConfirm
	}

	return promptConfirmer(stdin, stdout)
}

func promptConfirmer(stdin io.Reader, stdout io.Writer) service.Confirmer {
	reader := bufio.NewReader(stdin)
	return service.ConfirmFunc(func(prompt string) bool {
		color.New(color.FgYellow).Fprintf(stdout, "%s [y/N]: ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	})
}
