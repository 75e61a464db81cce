package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	domain "github.com/donaldgifford/partsearch/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

// render writes value as JSON, raw as the API's JSON, or calls table.
func render[T any](cmd *cobra.Command, value T, raw any, table func(io.Writer, T) error) error {
	w := cmd.OutOrStdout()
	switch outputFormat() {
	case "json":
		return outputJSON(w, value)
	case "raw":
		return outputJSON(w, raw)
	case "table", "":
		return table(w, value)
	default:
		return fmt.Errorf("unknown output format %q (want table, json or raw)", outputFormat())
	}
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printCategoriesTable(w io.Writer, cats []domain.Category) error {
	tw := newTabWriter(w)
	tw.writef("ID\tNAME\tPARENT\tCHILDREN\tPARTS\n")
	for i := range cats {
		c := &cats[i]
		tw.writef("%d\t%s\t%s\t%d\t%d\n", c.ID, c.NodeName, optInt(c.ParentID), len(c.ChildrenIDs), c.NumParts)
	}
	return tw.finish()
}

func printCategoryDetail(w io.Writer, c domain.Category) error {
	tw := newTabWriter(w)
	tw.writef("ID:\t%d\n", c.ID)
	tw.writef("Name:\t%s\n", c.NodeName)
	tw.writef("Parent:\t%s\n", optInt(c.ParentID))
	tw.writef("Ancestors:\t%s\n", joinInts(c.AncestorIDs))
	tw.writef("Children:\t%s\n", joinInts(c.ChildrenIDs))
	tw.writef("Parts:\t%d\n", c.NumParts)
	return tw.finish()
}

func printCategoryHits(w io.Writer, hits []domain.CategoryHit) error {
	tw := newTabWriter(w)
	tw.writef("ID\tNAME\tPARTS\tHIGHLIGHT\n")
	for i := range hits {
		c := &hits[i].Category
		tw.writef("%d\t%s\t%d\t%s\n", c.ID, c.NodeName, c.NumParts, hits[i].Highlight)
	}
	return tw.finish()
}

func printPartsTable(w io.Writer, parts []domain.Part) error {
	tw := newTabWriter(w)
	tw.writef("UID\tMPN\tMANUFACTURER\tOFFERS\tAVG PRICE\tDESCRIPTION\n")
	for i := range parts {
		p := &parts[i]
		tw.writef("%d\t%s\t%s\t%d\t%s\t%s\n",
			p.UID,
			p.MPN,
			p.Manufacturer.DisplayName,
			len(p.Offers),
			optPrice(p.AvgPrice),
			truncate(p.ShortDescription, 40),
		)
	}
	return tw.finish()
}

func printPartDetail(w io.Writer, p domain.Part) error {
	tw := newTabWriter(w)
	tw.writef("UID:\t%d\n", p.UID)
	tw.writef("MPN:\t%s\n", p.MPN)
	tw.writef("Manufacturer:\t%s\n", p.Manufacturer.DisplayName)
	tw.writef("Description:\t%s\n", p.ShortDescription)
	tw.writef("Avg Price:\t%s\n", optPrice(p.AvgPrice))
	tw.writef("Categories:\t%s\n", joinInts(p.CategoryIDs))
	tw.writef("URL:\t%s\n", p.DetailURL)
	for _, s := range p.Specs {
		tw.writef("%s:\t%s %s\n", s.Attribute.DisplayName, strings.Join(s.Values, ", "), s.Attribute.UnitSymbol())
	}
	for i := range p.Offers {
		o := &p.Offers[i]
		price := "-"
		if unit, ok := o.UnitPrice("USD", 1); ok {
			price = fmt.Sprintf("$%.4f", unit)
		}
		tw.writef("Offer:\t%s %s (stock %d, %s, authorized %v)\n",
			o.Supplier.DisplayName, o.SKU, o.Availability, price, o.IsAuthorized)
	}
	return tw.finish()
}

func printPartSearch(w io.Writer, r domain.PartSearchResult) error {
	tw := newTabWriter(w)
	tw.writef("UID\tMPN\tMANUFACTURER\tHIGHLIGHT\n")
	for i := range r.Hits {
		p := &r.Hits[i].Part
		tw.writef("%d\t%s\t%s\t%s\n", p.UID, p.MPN, p.Manufacturer.DisplayName, truncate(r.Hits[i].Highlight, 50))
	}
	tw.writef("\n%d of %d hits\n", len(r.Hits), r.HitCount)
	for _, d := range r.Drilldown {
		facets := make([]string, 0, len(d.Facets))
		for _, f := range d.Facets {
			facets = append(facets, fmt.Sprintf("%s (%d)", f.Value, f.Count))
		}
		tw.writef("%s:\t%s\n", d.Attribute.DisplayName, strings.Join(facets, ", "))
	}
	return tw.finish()
}

func printLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func printMatches(w io.Writer, matches []domain.PartMatch) error {
	tw := newTabWriter(w)
	tw.writef("UID\tMANUFACTURER\tMPN\n")
	for _, m := range matches {
		tw.writef("%d\t%s\t%s\n", m.UID, m.Manufacturer, m.MPN)
	}
	return tw.finish()
}

func printAttributes(w io.Writer, attrs []domain.PartAttribute) error {
	tw := newTabWriter(w)
	tw.writef("FIELD\tNAME\tTYPE\tUNIT\n")
	for i := range attrs {
		a := &attrs[i]
		unit := a.UnitName()
		if unit == "" {
			unit = "-"
		}
		tw.writef("%s\t%s\t%s\t%s\n", a.FieldName, a.DisplayName, a.Type, unit)
	}
	return tw.finish()
}

func printBOMResults(w io.Writer, results []domain.BOMResult) error {
	tw := newTabWriter(w)
	tw.writef("REFERENCE\tSTATUS\tMATCHES\n")
	for _, r := range results {
		mpns := make([]string, 0, len(r.Items))
		for i := range r.Items {
			mpns = append(mpns, r.Items[i].Manufacturer.DisplayName+" "+r.Items[i].MPN)
		}
		matches := strings.Join(mpns, "; ")
		if matches == "" {
			matches = "-"
		}
		tw.writef("%s\t%s\t%s\n", r.Reference, r.Status, matches)
	}
	return tw.finish()
}

func optInt(p *int64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatInt(*p, 10)
}

func optPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("$%.4f", *p)
}

func joinInts(ids []int64) string {
	if len(ids) == 0 {
		return "-"
	}
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(s, ",")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
