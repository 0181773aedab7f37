package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/preston-bernstein/nhl-notifier/internal/app"
	"github.com/preston-bernstein/nhl-notifier/internal/config"
	"github.com/preston-bernstein/nhl-notifier/internal/logging"
)

const (
	appName    = "nhl-notifier"
	appVersion = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	switch args[0] {
	case "run":
		return runNotifier(ctx, args[1:], stdout, stderr)
	case "generate":
		return generate(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}
}

func runNotifier(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath string
		creds   config.Credentials
	)
	fs.StringVar(&cfgPath, "config", config.DefaultConfigFile, "path to config yaml")
	fs.StringVar(&creds.AccountSID, "twil-sid", "", "Twilio account SID (env TWIL_ACCOUNT_SID)")
	fs.StringVar(&creds.AuthToken, "twil-token", "", "Twilio auth token (env TWIL_AUTH_TOKEN)")
	fs.StringVar(&creds.From, "twil-from", "", "Twilio sending number (env TWIL_FROM)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(cfgPath, creds)
	if err != nil {
		fmt.Fprintln(stderr, "fatal:", err)
		return 1
	}

	logger := logging.NewLogger(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: appName,
		Version: appVersion,
		Output:  stdout,
	})

	app.New(cfg, logger).Run(ctx)
	return 0
}

func generate(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dir := fs.String("dir", ".", "directory to write "+config.DefaultConfigFile+" into")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	path, err := config.Generate(*dir)
	if err != nil {
		fmt.Fprintln(stderr, "fatal:", err)
		return 1
	}
	fmt.Fprintln(stdout, "wrote", path)
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `usage: %s <command> [flags]

commands:
  run       notify subscribers about today's games
  generate  write a reference %s

Run "%s <command> -h" for command flags.
`, appName, config.DefaultConfigFile, appName)
}
