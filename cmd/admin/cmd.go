package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"school-attendance/internal/model"
	"school-attendance/internal/service"
	"school-attendance/pkg/jwt"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	users  service.UserService
	tokens *jwt.Manager
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  seed-admin -username USERNAME [-name NAME] - create or reset an admin account")
	fmt.Fprintln(cli.out, "  token -user ID -role ADMIN|TEACHER|STUDENT  - print a session token (local development)")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCmd := flag.NewFlagSet("seed-admin", flag.ContinueOnError)
	seedCmd.SetOutput(cli.out)
	seedUsername := seedCmd.String("username", "", "The admin's username. The password will be prompted next.")
	seedName := seedCmd.String("name", "Administrator", "Display name")

	tokenCmd := flag.NewFlagSet("token", flag.ContinueOnError)
	tokenCmd.SetOutput(cli.out)
	tokenUser := tokenCmd.String("user", "", "User id to embed in the token")
	tokenRole := tokenCmd.String("role", "", "ADMIN, TEACHER or STUDENT")

	switch args[1] {
	case "seed-admin":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *seedUsername == "" {
			seedCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			seedCmd.Usage()
			return errHelp
		}
		return cli.seedAdmin(ctx, *seedUsername, *seedName, string(pwd))

	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenUser == "" || !model.Role(*tokenRole).Valid() {
			tokenCmd.Usage()
			return errHelp
		}
		token, err := cli.tokens.GenerateAccessToken(*tokenUser, *tokenRole)
		if err != nil {
			return err
		}
		fmt.Fprintln(cli.out, token)
		return nil

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) seedAdmin(ctx context.Context, username, name, pwd string) error {
	admin, err := cli.users.SeedAdmin(ctx, username, name, pwd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "admin %s ready (id %s)\n", admin.Username, admin.ID)
	return nil
}
