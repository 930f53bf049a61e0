package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	"github.com/google/subcommands"
)

type exportCmd struct {
	io     *ioEnv
	pin    string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write a backup document of the active ledger" }
func (*exportCmd) Usage() string {
	return `ledgerctl export [-o <file>]

  Writes the backup to <file>, to "-" for stdout, or by default to
  finance-backup-<unix-ms>.json in the current directory.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	pinFlag(f, &c.pin)
	f.StringVar(&c.output, "o", "", "output file")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := c.io.open(ctx, c.pin)
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	defer a.close()

	snapshot, err := a.services.Backup.Export(ctx)
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	if c.output == "-" {
		if err := a.services.Backup.Encode(snapshot, c.io.out); err != nil {
			return c.io.failf(subcommands.ExitFailure, "%v", err)
		}
		return subcommands.ExitSuccess
	}

	name := c.output
	if name == "" {
		name = domain.BackupFileName(snapshot.BackupTimestamp)
	}
	file, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	if err := a.services.Backup.Encode(snapshot, file); err != nil {
		file.Close()
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	if err := file.Close(); err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	fmt.Fprintln(c.io.out, name)
	return subcommands.ExitSuccess
}

type importCmd struct {
	io    *ioEnv
	pin   string
	input string
	yes   bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the active ledger with a backup document" }
func (*importCmd) Usage() string {
	return `ledgerctl import -f <file> -yes

  Every current transaction and loan is replaced by the document's content.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	pinFlag(f, &c.pin)
	f.StringVar(&c.input, "f", "", "backup file to restore")
	f.BoolVar(&c.yes, "yes", false, "confirm that the current ledger will be overwritten")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.input == "" {
		return c.io.failf(subcommands.ExitUsageError, "-f is required")
	}
	if !c.yes {
		return c.io.failf(subcommands.ExitUsageError, "import overwrites the current ledger; pass -yes to confirm")
	}
	file, err := os.Open(c.input)
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	defer file.Close()

	a, err := c.io.open(ctx, c.pin)
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	defer a.close()

	ledger, err := a.services.Backup.Import(ctx, file)
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	fmt.Fprintf(c.io.out, "Restored %d transactions and %d loans\n", len(ledger.Transactions), len(ledger.Loans))
	return subcommands.ExitSuccess
}

type archiveCmd struct {
	io      *ioEnv
	pin     string
	list    bool
	restore string
}

func (*archiveCmd) Name() string { return "archive" }
func (*archiveCmd) Synopsis() string {
	return "store, list or restore backups in the configured archive"
}
func (*archiveCmd) Usage() string {
	return `ledgerctl archive [-list | -restore <name>]

  Without flags, archives a backup of the active ledger.
`
}

func (c *archiveCmd) SetFlags(f *flag.FlagSet) {
	pinFlag(f, &c.pin)
	f.BoolVar(&c.list, "list", false, "list archived backups")
	f.StringVar(&c.restore, "restore", "", "restore the named backup, replacing the current ledger")
}

func (c *archiveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list && c.restore != "" {
		return c.io.failf(subcommands.ExitUsageError, "-list and -restore are exclusive")
	}
	a, err := c.io.open(ctx, c.pin)
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	defer a.close()

	switch {
	case c.list:
		entries, err := a.services.Backup.ListArchives(ctx)
		if err != nil {
			return c.io.failf(subcommands.ExitFailure, "%v", err)
		}
		w := tabwriter.NewWriter(c.io.out, 0, 4, 2, ' ', 0)
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%d\t%s\n", e.Name, e.Size, e.ModifiedAt.Format(time.RFC3339))
		}
		return exitOnFlush(c.io, w)

	case c.restore != "":
		ledger, err := a.services.Backup.RestoreArchive(ctx, c.restore)
		if err != nil {
			return c.io.failf(subcommands.ExitFailure, "%v", err)
		}
		fmt.Fprintf(c.io.out, "Restored %d transactions and %d loans\n", len(ledger.Transactions), len(ledger.Loans))
		return subcommands.ExitSuccess
	}

	name, err := a.services.Backup.Archive(ctx)
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	fmt.Fprintln(c.io.out, name)
	return subcommands.ExitSuccess
}
