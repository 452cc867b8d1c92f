package main

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zx06/airtable-mcp/internal/airtable"
	"github.com/zx06/airtable-mcp/internal/app"
	"github.com/zx06/airtable-mcp/internal/errors"
	mcp_pkg "github.com/zx06/airtable-mcp/internal/mcp"
	"github.com/zx06/airtable-mcp/internal/output"
)

// NewToolCommand creates the tool command group
func NewToolCommand(a *app.App, w *output.Writer) *cobra.Command {
	toolCmd := &cobra.Command{
		Use:   "tool",
		Short: "Inspect and invoke Airtable tools without an MCP client",
	}

	toolCmd.AddCommand(newToolListCommand(w))
	toolCmd.AddCommand(newToolCallCommand(a, w))

	return toolCmd
}

func newToolListCommand(w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			h := mcp_pkg.NewToolHandler(airtable.Options{})
			return w.WriteOK(format, mcp_pkg.ToolList(h.Tools()))
		},
	}
}

type toolCallOptions struct {
	args             string
	skipHostKeyCheck bool
}

func newToolCallCommand(a *app.App, w *output.Writer) *cobra.Command {
	opts := &toolCallOptions{}
	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Invoke a tool and print its {data, error, successful} envelope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			raw, xe := readToolArgs(opts.args, cmd.InOrStdin())
			if xe != nil {
				return xe
			}

			conn, xe := openConnection(cmd.Context(), a, opts.skipHostKeyCheck)
			if xe != nil {
				return xe
			}
			defer conn.Close()

			name := args[0]
			env, err := mcp_pkg.NewToolHandler(conn.Options).Call(cmd.Context(), name, raw)
			if err != nil {
				return err
			}
			if env.Error != "" {
				return errors.New(errors.CodeToolFailed, env.Error, map[string]any{"tool": name})
			}
			return w.WriteOK(format, env)
		},
	}
	cmd.Flags().StringVar(&opts.args, "args", "", "Tool arguments as a JSON object; '-' reads stdin")
	cmd.Flags().BoolVar(&opts.skipHostKeyCheck, "ssh-skip-known-hosts-check", false, "Skip SSH known_hosts check for ssh_proxy (dangerous)")
	return cmd
}

// readToolArgs 返回工具参数 JSON；空串视为 {}。
func readToolArgs(flag string, stdin io.Reader) (json.RawMessage, *errors.XError) {
	raw := strings.TrimSpace(flag)
	if raw == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(errors.CodeCfgInvalid, "failed to read tool arguments from stdin", nil, err)
		}
		raw = strings.TrimSpace(string(b))
	}
	if raw == "" {
		raw = "{}"
	}
	if !json.Valid([]byte(raw)) {
		return nil, errors.New(errors.CodeCfgInvalid, "tool arguments are not valid JSON", nil)
	}
	return json.RawMessage(raw), nil
}
