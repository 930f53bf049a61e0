package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/personal_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger_app/internal/core/services"
	"github.com/SscSPs/personal_ledger_app/internal/dto"
	"github.com/SscSPs/personal_ledger_app/internal/platform/config"
	"github.com/SscSPs/personal_ledger_app/internal/platform/storage"
	"github.com/SscSPs/personal_ledger_app/internal/repositories/kvrepo"
	"github.com/google/subcommands"
)

// Run executes one ledgerctl invocation and returns its exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("ledgerctl", flag.ContinueOnError)
	flags.SetOutput(stderr)
	verbose := flags.Bool("v", false, "log at debug level")

	commander := subcommands.NewCommander(flags, "ledgerctl")
	commander.Output = stdout
	commander.Error = stderr

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	env := &ioEnv{out: stdout, errOut: stderr, verbose: verbose}
	commander.Register(&statusCmd{io: env}, "session")
	commander.Register(&registerCmd{io: env}, "session")
	commander.Register(&loginCmd{io: env}, "session")
	commander.Register(&logoutCmd{io: env}, "session")
	commander.Register(&setPinCmd{io: env}, "session")
	commander.Register(&removePinCmd{io: env}, "session")

	commander.Register(&addCmd{io: env}, "ledger")
	commander.Register(&loanCmd{io: env}, "ledger")
	commander.Register(&paidCmd{io: env}, "ledger")
	commander.Register(&deleteCmd{io: env}, "ledger")
	commander.Register(&summaryCmd{io: env}, "ledger")

	commander.Register(&exportCmd{io: env}, "backup")
	commander.Register(&importCmd{io: env}, "backup")
	commander.Register(&archiveCmd{io: env}, "backup")

	if err := flags.Parse(args); err != nil {
		return int(subcommands.ExitUsageError)
	}
	return int(commander.Execute(ctx))
}

// ioEnv carries the output streams shared by every command.
type ioEnv struct {
	out     io.Writer
	errOut  io.Writer
	verbose *bool
}

func (e *ioEnv) failf(status subcommands.ExitStatus, format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(e.errOut, "Error: "+format+"\n", args...)
	return status
}

// app is one process worth of wiring: config, store and services.
type app struct {
	cfg      *config.Config
	services *portssvc.ServiceContainer
	close    func()
}

// open wires the services on the configured store and restores the session.
// A non-empty pin unlocks a session that is waiting for it.
func (e *ioEnv) open(ctx context.Context, pin string) (*app, error) {
	level := slog.LevelWarn
	if e.verbose != nil && *e.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(e.errOut, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	store, closeStore, err := storage.OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	backupArchive, err := storage.OpenArchive(ctx, cfg, logger)
	if err != nil {
		closeStore()
		return nil, err
	}

	container := services.NewServiceContainer(kvrepo.NewRepositoryProvider(store, backupArchive))
	status, err := container.Session.Restore(ctx)
	if err != nil {
		closeStore()
		return nil, err
	}
	if status.State == domain.AwaitingUnlock && pin != "" {
		if err := container.Session.VerifyPin(ctx, dto.VerifyPinRequest{Pin: pin}); err != nil {
			closeStore()
			return nil, err
		}
	}
	return &app{cfg: cfg, services: container, close: closeStore}, nil
}

// pinFlag registers the -pin flag shared by commands that need an unlocked session.
func pinFlag(f *flag.FlagSet, dst *string) {
	f.StringVar(dst, "pin", os.Getenv("LEDGER_PIN"), "PIN to unlock the session (defaults to $LEDGER_PIN)")
}
