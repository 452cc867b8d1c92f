package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zx06/airtable-mcp/internal/errors"
	"github.com/zx06/airtable-mcp/internal/output"
	"github.com/zx06/airtable-mcp/internal/secret"
)

// NewSecretCommand creates the secret command group
func NewSecretCommand(w *output.Writer) *cobra.Command {
	secretCmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage secrets in the OS keyring (service " + secret.ServiceName + ")",
	}

	secretCmd.AddCommand(newSecretSetCommand(w))
	secretCmd.AddCommand(newSecretDeleteCommand(w))

	return secretCmd
}

func newSecretSetCommand(w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "set [account]",
		Short: "Store a secret; reads from the terminal without echo, or from stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			account := accountArg(args)
			value, xe := readSecretValue(cmd.InOrStdin(), cmd.ErrOrStderr())
			if xe != nil {
				return xe
			}
			if xe := secret.Store(account, value, secret.Options{}); xe != nil {
				return xe
			}
			return w.WriteOK(format, map[string]any{
				"account":   account,
				"service":   secret.ServiceName,
				"reference": "keyring:" + account,
				"stored":    true,
			})
		},
	}
}

func newSecretDeleteCommand(w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [account]",
		Short: "Delete a secret from the keyring",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			account := accountArg(args)
			if xe := secret.Remove(account, secret.Options{}); xe != nil {
				return xe
			}
			return w.WriteOK(format, map[string]any{
				"account": account,
				"service": secret.ServiceName,
				"deleted": true,
			})
		},
	}
}

func accountArg(args []string) string {
	if len(args) == 0 {
		return secret.DefaultAccount
	}
	return args[0]
}

// readSecretValue 在 TTY 上不回显读取一行，否则读取整个 stdin。
func readSecretValue(in io.Reader, prompt io.Writer) (string, *errors.XError) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(prompt, "Secret: ")
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(prompt)
		if err != nil {
			return "", errors.Wrap(errors.CodeInternal, "failed to read secret from terminal", nil, err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", errors.Wrap(errors.CodeInternal, "failed to read secret from stdin", nil, err)
	}
	return strings.TrimSpace(string(b)), nil
}
