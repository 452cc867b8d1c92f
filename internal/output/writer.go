package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/zx06/airtable-mcp/internal/errors"
)

const nullPlaceholder = "<null>"

// TableFormatter 由可按行列渲染的数据实现（如记录列表、工具列表）。
// ok=false 时回退为 key/value 输出。
type TableFormatter interface {
	ToTableData() (columns []string, rows []map[string]any, ok bool)
}

type Writer struct {
	Out io.Writer
	Err io.Writer
}

func New(out, err io.Writer) Writer {
	return Writer{Out: out, Err: err}
}

func (w Writer) WriteOK(format Format, data any) error {
	return w.write(format, Envelope{OK: true, SchemaVersion: SchemaVersion, Data: data})
}

func (w Writer) WriteError(format Format, xe *errors.XError) error {
	return w.write(format, Envelope{OK: false, SchemaVersion: SchemaVersion, Error: newErrorObject(xe)})
}

func (w Writer) write(format Format, env Envelope) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w.Out)
		enc.SetEscapeHTML(false)
		return enc.Encode(env)
	case FormatYAML:
		b, err := yaml.Marshal(env)
		if err != nil {
			return err
		}
		_, err = w.Out.Write(b)
		if err != nil {
			return err
		}
		if len(b) == 0 || b[len(b)-1] != '\n' {
			_, _ = w.Out.Write([]byte("\n"))
		}
		return nil
	case FormatTable:
		return writeTable(w.Out, env)
	case FormatCSV:
		return writeCSV(w.Out, env)
	default:
		return errors.New(errors.CodeCfgInvalid, "invalid output format", map[string]any{"format": string(format)})
	}
}

func tableData(data any) ([]string, []map[string]any, bool) {
	if tf, ok := data.(TableFormatter); ok {
		return tf.ToTableData()
	}
	return nil, nil, false
}

func writeTable(out io.Writer, env Envelope) error {
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	if !env.OK {
		_, _ = fmt.Fprintf(tw, "ok\t%v\n", false)
		_, _ = fmt.Fprintf(tw, "schema_version\t%d\n", env.SchemaVersion)
		if env.Error != nil {
			_, _ = fmt.Fprintf(tw, "error.code\t%s\n", env.Error.Code)
			_, _ = fmt.Fprintf(tw, "error.message\t%s\n", env.Error.Message)
		}
		return tw.Flush()
	}

	if cols, rows, ok := tableData(env.Data); ok {
		_, _ = fmt.Fprintln(tw, strings.Join(cols, "\t"))
		for _, row := range rows {
			cells := make([]string, len(cols))
			for i, c := range cols {
				cells[i] = formatCellValue(row[c], nullPlaceholder)
			}
			_, _ = fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "(%d rows)\n", len(rows))
		return err
	}

	// 非表格数据：按 key 排序输出
	if m, ok := env.Data.(map[string]any); ok {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = fmt.Fprintf(tw, "%s\t%s\n", k, formatCellValue(m[k], nullPlaceholder))
		}
		return tw.Flush()
	}
	if env.Data != nil {
		b, _ := json.MarshalIndent(env.Data, "", "  ")
		_, _ = fmt.Fprintf(tw, "data\t%s\n", strings.ReplaceAll(string(b), "\n", " "))
	}
	return tw.Flush()
}

func writeCSV(out io.Writer, env Envelope) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()
	if env.OK {
		if cols, rows, ok := tableData(env.Data); ok {
			_ = cw.Write(cols)
			for _, row := range rows {
				rec := make([]string, len(cols))
				for i, c := range cols {
					rec[i] = formatCellValue(row[c], "")
				}
				_ = cw.Write(rec)
			}
			return cw.Error()
		}
		// CSV 仅对表格数据有意义；其余情况只给出状态行
		_ = cw.Write([]string{"ok", "true"})
		_ = cw.Write([]string{"schema_version", fmt.Sprintf("%d", env.SchemaVersion)})
		return cw.Error()
	}
	_ = cw.Write([]string{"ok", "false"})
	_ = cw.Write([]string{"schema_version", fmt.Sprintf("%d", env.SchemaVersion)})
	if env.Error != nil {
		_ = cw.Write([]string{"error.code", string(env.Error.Code)})
		_ = cw.Write([]string{"error.message", env.Error.Message})
	}
	return cw.Error()
}

// formatCellValue 渲染单元格：nil 用占位符，整数值的 float64 不带小数，复合值转紧凑 JSON。
func formatCellValue(v any, null string) string {
	switch x := v.(type) {
	case nil:
		return null
	case string:
		return x
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%g", x)
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}
