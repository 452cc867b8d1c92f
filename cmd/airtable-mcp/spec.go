package main

import (
	"github.com/spf13/cobra"

	"github.com/zx06/airtable-mcp/internal/airtable"
	"github.com/zx06/airtable-mcp/internal/app"
	mcp_pkg "github.com/zx06/airtable-mcp/internal/mcp"
	"github.com/zx06/airtable-mcp/internal/output"
	"github.com/zx06/airtable-mcp/internal/spec"
)

// NewSpecCommand creates the spec command
func NewSpecCommand(a *app.App, w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "spec",
		Short: "Export tool spec for AI/agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			s := a.BuildSpec()
			// 只读取工具元数据，不会构造 client
			for _, t := range mcp_pkg.NewToolHandler(airtable.Options{}).Tools() {
				s.Tools = append(s.Tools, spec.ToolSpec{Name: t.Name, Description: t.Description})
			}
			return w.WriteOK(format, s)
		},
	}
}
