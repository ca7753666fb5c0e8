// Command alignctl provisions subjects and reads stored sessions out-of-band.
package main

import (
	"align/auth"
	"align/domain"
	"align/internal"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const usage = `usage: alignctl <command> [flags]

commands:
  create-user -email -password [-name] [-role member|admin]
  delete-user -email
  token       -email
  login       -email -password
  users
  sessions    -email [-kind vent|mediation]
  inspect     [-prefix session:]
`

func main() {
	code, err := run(context.Background(), os.Args[1:], os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "alignctl: %v\n", err)
	}
	os.Exit(code)
}

func run(ctx context.Context, args []string, out io.Writer) (int, error) {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return exitConfig, nil
	}

	_ = godotenv.Load()
	cfg, err := LoadConfig()
	if err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	command, args := args[0], args[1:]
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(out)
	email := fs.String("email", "", "subject email")
	password := fs.String("password", "", "subject password")
	name := fs.String("name", "", "display name")
	role := fs.String("role", string(domain.SubjectRoleMember), "member or admin")
	kind := fs.String("kind", string(domain.KindVent), "vent or mediation")
	prefix := fs.String("prefix", "session:", "key prefix to scan")
	if err := fs.Parse(args); err != nil {
		return exitConfig, err
	}

	if command == "inspect" {
		return runInspect(cfg, *prefix, out)
	}

	log := logs.GetLoggerFromString(cfg.LogLevel)
	stores, err := internal.OpenStores(ctx, cfg.storage(), log)
	if err != nil {
		return exitRuntime, err
	}
	defer stores.Close()

	c := &console{out: out, subjects: stores.Subjects, sessions: stores.Sessions, colours: cfg.Colours}
	if cfg.AuthSecret != "" {
		if c.tokens, err = auth.NewTokenIssuer(cfg.AuthSecret, cfg.AuthTokenDuration); err != nil {
			return exitConfig, err
		}
	}

	switch command {
	case "create-user":
		_, err = c.createUser(ctx, auth.CreateSubjectRequest{Email: *email, Password: *password, Name: *name, Role: *role})
	case "delete-user":
		err = c.deleteUser(ctx, *email)
	case "token":
		_, err = c.token(ctx, *email)
	case "login":
		_, err = c.login(ctx, *email, *password)
	case "users":
		err = c.listUsers(ctx)
	case "sessions":
		k, parseErr := domain.ParseKind(*kind)
		if parseErr != nil {
			return exitConfig, parseErr
		}
		err = c.listSessions(ctx, k, *email)
	default:
		fmt.Fprint(out, usage)
		return exitConfig, fmt.Errorf("unknown command %q", command)
	}
	if err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}

// runInspect opens Badger read-only so it can run next to a live server.
func runInspect(cfg Config, prefix string, out io.Writer) (int, error) {
	if cfg.StorageBackend != internal.StorageBadger {
		return exitConfig, fmt.Errorf("inspect only supports the badger backend")
	}
	db, err := badger.Open(badger.DefaultOptions(cfg.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLogger(nil))
	if err != nil {
		return exitRuntime, fmt.Errorf("open badger: %w", err)
	}
	defer db.Close()

	if err := inspect(out, db, prefix); err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}
