package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Supported output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Formats lists every supported format
var Formats = []string{FormatText, FormatJSON, FormatCSV, FormatXLSX}

// Config holds configuration for output generation
type Config struct {
	Format string
	// OutputPath writes to a file instead of the command's writer
	OutputPath string
}

// Table is one rendered view. JSON output encodes Data; the tabular formats
// use Headers and Rows.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]any
	Data    any
}

// Generate writes the table in the configured format
func Generate(w io.Writer, table Table, config Config) error {
	switch config.Format {
	case FormatText, "":
		return toDestination(w, config, func(dst io.Writer) error { return generateText(dst, table) })
	case FormatJSON:
		return toDestination(w, config, func(dst io.Writer) error { return generateJSON(dst, table) })
	case FormatCSV:
		return toDestination(w, config, func(dst io.Writer) error { return generateCSV(dst, table) })
	case FormatXLSX:
		if config.OutputPath == "" {
			return fmt.Errorf("output path required for xlsx format")
		}
		return generateExcel(config.OutputPath, table)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func toDestination(w io.Writer, config Config, fn func(io.Writer) error) error {
	if config.OutputPath == "" {
		return fn(w)
	}
	if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(config.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func generateText(w io.Writer, table Table) error {
	if table.Title != "" {
		fmt.Fprintf(w, "%s\n%s\n\n", table.Title, strings.Repeat("=", len(table.Title)))
	}
	if len(table.Rows) == 0 {
		_, err := fmt.Fprintln(w, "(none)")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(table.Headers, "\t"))
	rule := make([]string, len(table.Headers))
	for i, h := range table.Headers {
		rule[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(rule, "\t"))
	for _, row := range table.Rows {
		fmt.Fprintln(tw, strings.Join(textRow(row), "\t"))
	}
	return tw.Flush()
}

func generateJSON(w io.Writer, table Table) error {
	data := table.Data
	if data == nil {
		data = table.Rows
	}
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func generateCSV(w io.Writer, table Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range table.Rows {
		if err := writer.Write(textRow(row)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// generateExcel writes one sheet named after the table
func generateExcel(path string, table Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := sheetTitle(table.Title)
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	for i, header := range table.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	for r, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = cellValue(v)
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	if len(table.Headers) > 0 {
		last, err := excelize.ColumnNumberToName(len(table.Headers))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, "A", last, 18); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

// sheetTitle trims a title to excel's sheet name rules
func sheetTitle(title string) string {
	if title == "" {
		return "Sheet1"
	}
	title = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, title)
	if len(title) > 31 {
		title = title[:31]
	}
	return title
}

func textRow(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = cellText(v)
	}
	return out
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case decimal.Decimal:
		return x.StringFixed(2)
	case float64:
		return strconv.FormatFloat(math.Round(x*1e4)/1e4, 'f', -1, 64)
	case *float64:
		if x == nil {
			return ""
		}
		return strconv.FormatFloat(*x, 'f', 2, 64)
	case time.Time:
		return x.Format("2006-01-02")
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.Format("2006-01-02")
	default:
		return fmt.Sprint(x)
	}
}

// cellValue keeps numbers numeric in spreadsheets
func cellValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case *float64:
		if x == nil {
			return ""
		}
		return *x
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.Format("2006-01-02")
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return v
	}
}
