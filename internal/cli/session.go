package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/SscSPs/personal_ledger_app/internal/dto"
	"github.com/google/subcommands"
)

type statusCmd struct {
	io *ioEnv
}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "show who is signed in and whether the session is locked" }
func (*statusCmd) Usage() string {
	return `ledgerctl status

  Prints the session state, the PIN lock state and the active account.
`
}
func (*statusCmd) SetFlags(*flag.FlagSet) {}

func (c *statusCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := c.io.open(ctx, "")
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	defer a.close()

	status := a.services.Session.Status()
	fmt.Fprintf(c.io.out, "state: %s\nlock:  %s\n", status.State, status.Lock)
	if status.ActiveAccount != nil {
		fmt.Fprintf(c.io.out, "account: %s <%s>\n", status.ActiveAccount.DisplayName, status.ActiveAccount.Identifier)
	}
	return subcommands.ExitSuccess
}

type registerCmd struct {
	io       *ioEnv
	email    string
	name     string
	password string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create an account and sign in" }
func (*registerCmd) Usage() string {
	return `ledgerctl register -email <email> -name <name> [-password <secret>]

  The password defaults to $LEDGER_PASSWORD.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "account identifier")
	f.StringVar(&c.name, "name", "", "display name")
	f.StringVar(&c.password, "password", os.Getenv("LEDGER_PASSWORD"), "account password")
}

func (c *registerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := c.io.open(ctx, "")
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	defer a.close()

	account, err := a.services.Credential.Register(ctx, dto.RegisterRequest{
		Identifier:  c.email,
		DisplayName: c.name,
		Secret:      c.password,
	})
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	fmt.Fprintf(c.io.out, "Registered and signed in as %s\n", account.Identifier)
	return subcommands.ExitSuccess
}

type loginCmd struct {
	io       *ioEnv
	email    string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "sign in to an existing account" }
func (*loginCmd) Usage() string {
	return `ledgerctl login -email <email> [-password <secret>]

  The password defaults to $LEDGER_PASSWORD.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "account identifier")
	f.StringVar(&c.password, "password", os.Getenv("LEDGER_PASSWORD"), "account password")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := c.io.open(ctx, "")
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	defer a.close()

	account, err := a.services.Credential.Authenticate(ctx, dto.LoginRequest{Identifier: c.email, Secret: c.password})
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	fmt.Fprintf(c.io.out, "Signed in as %s\n", account.Identifier)
	return subcommands.ExitSuccess
}

type logoutCmd struct {
	io *ioEnv
}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "sign out of the active account" }
func (*logoutCmd) Usage() string {
	return `ledgerctl logout

  The PIN lock, if any, stays registered.
`
}
func (*logoutCmd) SetFlags(*flag.FlagSet) {}

func (c *logoutCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := c.io.open(ctx, "")
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	defer a.close()

	if err := a.services.Session.Logout(ctx); err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	fmt.Fprintln(c.io.out, "Signed out")
	return subcommands.ExitSuccess
}

type setPinCmd struct {
	io      *ioEnv
	current string
	pin     string
	confirm string
}

func (*setPinCmd) Name() string     { return "setpin" }
func (*setPinCmd) Synopsis() string { return "register a 4-digit PIN that locks the next start" }
func (*setPinCmd) Usage() string {
	return `ledgerctl setpin -new <pin> -confirm <pin> [-pin <current>]
`
}

func (c *setPinCmd) SetFlags(f *flag.FlagSet) {
	pinFlag(f, &c.current)
	f.StringVar(&c.pin, "new", "", "new PIN")
	f.StringVar(&c.confirm, "confirm", "", "new PIN again")
}

func (c *setPinCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := c.io.open(ctx, c.current)
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	defer a.close()

	if err := a.services.Session.SetPin(ctx, dto.SetPinRequest{Pin: c.pin, ConfirmPin: c.confirm}); err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	fmt.Fprintln(c.io.out, "PIN set")
	return subcommands.ExitSuccess
}

type removePinCmd struct {
	io  *ioEnv
	pin string
}

func (*removePinCmd) Name() string     { return "removepin" }
func (*removePinCmd) Synopsis() string { return "remove the PIN lock" }
func (*removePinCmd) Usage() string {
	return `ledgerctl removepin -pin <current>
`
}

func (c *removePinCmd) SetFlags(f *flag.FlagSet) { pinFlag(f, &c.pin) }

func (c *removePinCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := c.io.open(ctx, c.pin)
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	defer a.close()

	// The PIN must have been verified above; removal alone does not unlock.
	if _, err := a.services.Session.ActiveAccount(); err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	if err := a.services.Session.RemovePin(ctx); err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	fmt.Fprintln(c.io.out, "PIN removed")
	return subcommands.ExitSuccess
}
