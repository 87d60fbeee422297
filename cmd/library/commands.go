package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/Astemirdum/library-management/library/app"
	"github.com/Astemirdum/library-management/library/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "library",
		Short:        "Library management web application",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newCreateSuperuserCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var debug bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := zapcore.InfoLevel
			if debug {
				level = zapcore.DebugLevel
			}
			cfg, err := config.Load(
				config.WithLogLevel(level),
				config.WithWriteTimeout(time.Minute),
			)
			if err != nil {
				return err
			}
			app.Run(cfg)
			return nil
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "log at debug level unless LOG_LEVEL is set")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.WithoutSession())
			if err != nil {
				return err
			}
			if err := app.Migrate(cmd.Context(), cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newCreateSuperuserCmd() *cobra.Command {
	var req app.SuperuserRequest
	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()
			var err error
			if req.Username == "" {
				if req.Username, err = prompt(in, out, "Username: "); err != nil {
					return err
				}
			}
			if req.Email == "" {
				if req.Email, err = prompt(in, out, "Email address: "); err != nil {
					return err
				}
			}
			if req.Password, err = readPassword(in, out); err != nil {
				return err
			}

			cfg, err := config.Load(config.WithoutSession())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			user, err := app.CreateSuperuser(ctx, cfg, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Superuser %q created.\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "login name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	return cmd
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads without echo on a terminal and falls back to a plain
// line otherwise, e.g. when the password is piped in.
func readPassword(in *bufio.Reader, out io.Writer) (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		return prompt(in, out, "Password: ")
	}
	for {
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
			fmt.Fprintln(os.Stderr, "Error: Your passwords didn't match.")
			continue
		}
		return strings.TrimSpace(string(first)), nil
	}
}
