package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/partsearch/pkg/octopart"
)

func bomCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bom",
		Short: "Match bills of materials",
	}
	root.AddCommand(bomMatchCmd())
	return root
}

func bomMatchCmd() *cobra.Command {
	var (
		format string
		hide   []string
	)
	cmd := &cobra.Command{
		Use:   "match <file|->",
		Short: "Match BOM lines against the part catalog",
		Long: "Match BOM lines read from a CSV or JSON file (\"-\" reads stdin).\n" +
			"CSV files need a header row naming the line fields: q, mpn,\n" +
			"manufacturer, sku, supplier, mpn_or_sku, reference, start, limit.\n" +
			"JSON files hold an array of objects with the same keys.",
		Example: `  partsearch bom match board.csv
  cat lines.json | partsearch bom match - --format json --hide offers`,
		Args: cobra.ExactArgs(1),
		RunE: withClient(func(ctx context.Context, cmd *cobra.Command, s *session, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if format == "" {
				format = detectFormat(args[0], data)
			}
			lines, err := parseBOM(format, data)
			if err != nil {
				return err
			}
			opts := octopart.Args{}
			if err := applyHide(opts, hide); err != nil {
				return err
			}
			resp, err := s.client.MatchBOM(ctx, lines, opts)
			if err != nil {
				return err
			}
			return render(cmd, resp.Value, resp.Raw, printBOMResults)
		}),
	}
	cmd.Flags().StringVar(&format, "format", "", "input format (csv, json); detected when empty")
	addHideFlag(cmd, &hide)
	return cmd
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading BOM file: %w", err)
	}
	return data, nil
}

func detectFormat(name string, data []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return "json"
	case ".csv":
		return "csv"
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		return "json"
	}
	return "csv"
}

func parseBOM(format string, data []byte) ([]octopart.Args, error) {
	switch format {
	case "json":
		return parseBOMJSON(data)
	case "csv":
		return parseBOMCSV(data)
	default:
		return nil, fmt.Errorf("unknown BOM format %q (want csv or json)", format)
	}
}

func parseBOMJSON(data []byte) ([]octopart.Args, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var lines []octopart.Args
	if err := dec.Decode(&lines); err != nil {
		return nil, fmt.Errorf("parsing BOM JSON: %w", err)
	}
	return lines, nil
}

var bomIntColumns = map[string]bool{"start": true, "limit": true}

// parseBOMCSV reads one line per record. Empty cells are omitted so the
// API defaults apply.
func parseBOMCSV(data []byte) ([]octopart.Args, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("parsing BOM CSV: missing header row")
		}
		return nil, fmt.Errorf("parsing BOM CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var lines []octopart.Args
	for row := 2; ; row++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing BOM CSV: %w", err)
		}
		line := octopart.Args{}
		for i, cell := range rec {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			col := header[i]
			if !bomIntColumns[col] {
				line[col] = cell
				continue
			}
			n, err := strconv.Atoi(cell)
			if err != nil {
				return nil, fmt.Errorf("parsing BOM CSV row %d: %s %q is not an integer", row, col, cell)
			}
			line[col] = n
		}
		lines = append(lines, line)
	}
	return lines, nil
}
