// Command admin runs maintenance tasks against the configured database.
//
//	admin createsuperuser -email root@example.com [-password secret]
//
// Without -password the password is read from the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/spec-kit/consulting-service/internal/config"
	"github.com/spec-kit/consulting-service/internal/observability"
	"github.com/spec-kit/consulting-service/internal/persistence"
	"github.com/spec-kit/consulting-service/internal/policy"
	"github.com/spec-kit/consulting-service/internal/repository"
	"github.com/spec-kit/consulting-service/internal/service"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: admin <createsuperuser> [flags]")
	}

	switch args[0] {
	case "createsuperuser":
		return createSuperuser(args[1:])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func createSuperuser(args []string) error {
	fs := flag.NewFlagSet("createsuperuser", flag.ContinueOnError)
	email := fs.String("email", "", "email of the new administrator")
	password := fs.String("password", "", "password; prompted when omitted")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*email) == "" {
		return errors.New("-email is required")
	}
	if *password == "" {
		pw, err := promptPassword(os.Stdin, os.Stderr)
		if err != nil {
			return err
		}
		*password = pw
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.App.StorageDriver != config.StorageDriverPostgres {
		return errors.New("createsuperuser needs STORAGE_DRIVER=postgres")
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()
	if pg.PoolHandle() == nil {
		return errors.New("POSTGRES_DSN is required")
	}

	store := repository.NewPostgresStore(pg.PoolHandle())
	accounts := service.NewAccountService(cfg.Auth, service.AccountDependencies{
		UserRepo: store.Users,
		Policy:   policy.NewEngine(policy.DefaultTable(policy.Options{})),
		Logger:   logger,
	})

	user, err := accounts.CreateSuperuser(ctx, *email, *password)
	if err != nil {
		return err
	}
	logger.Info("superuser created", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return nil
}

// promptPassword reads a password twice without echo. Piped input is read
// as a single line.
func promptPassword(in *os.File, out io.Writer) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		var line string
		if _, err := fmt.Fscanln(in, &line); err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return line, nil
	}

	fmt.Fprint(out, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	fmt.Fprint(out, "Password (again): ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
