package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/shule/core/roster"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db          *sql.DB
	staffRepo   roster.StaffRepository
	transitions roster.TransitionRepository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate SUBCOMMAND [args] - run database migrations")
	fmt.Println("  seed [-students COUNT]    - reset staff to the canonical list and generate a student roster")
	fmt.Println("  resetpin -id STAFF_ID     - reset a staff member's PIN")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedCount := seedCmd.Int("students", roster.DefaultEnrollment, "The number of students to generate.")

	resetPINCmd := flag.NewFlagSet("resetpin", flag.ExitOnError)
	resetPINID := resetPINCmd.String("id", "", "The staff member's id. The PIN will be prompted next; leave empty for the default PIN.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *seedCount <= 0 {
			seedCmd.Usage()
			return errHelp
		}
		return cli.seed(*seedCount)
	case "resetpin":
		if err := resetPINCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPINID == "" {
			resetPINCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter new PIN:")
		pin, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		return cli.resetPIN(*resetPINID, string(pin))
	default:
		cli.printUsage()
		return errHelp
	}
}
