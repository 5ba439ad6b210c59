package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yungbote/payerdesk/internal/domain/registry"
	"github.com/yungbote/payerdesk/internal/paging"
	"github.com/yungbote/payerdesk/internal/taxonomy"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func footer[T any](out io.Writer, v paging.View[T], maxPage int) {
	fmt.Fprintf(out, "page %d/%d, %d total\n", v.Page, maxPage, v.Total)
}

func renderUnmapped(out io.Writer, v paging.View[registry.UnmappedDetail], maxPage int) error {
	tw := newTable(out)
	fmt.Fprintln(tw, "DETAIL\tPAYER ID\tNAME\tSTATE\tSOURCE")
	for _, d := range v.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", d.DetailID, d.PayerID, d.PayerName, d.State, d.Source)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	footer(out, v, maxPage)
	return nil
}

func groupLabel(reg *taxonomy.Registry, p registry.Payer) string {
	return taxonomy.ToDisplayLabel(reg.Label(taxonomy.KeyOf(p)))
}

func renderPayers(out io.Writer, v paging.View[registry.Payer], maxPage int, reg *taxonomy.Registry) error {
	tw := newTable(out)
	fmt.Fprintln(tw, "PAYER ID\tNAME\tDISPLAY\tGROUP")
	for _, p := range v.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.PayerID, p.PayerName, p.DisplayName(), groupLabel(reg, p))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	footer(out, v, maxPage)
	return nil
}

// renderSections prints the loaded payers page bucketed by group. Counts are
// for this page only.
func renderSections(out io.Writer, sections []taxonomy.Section, v paging.View[registry.Payer], maxPage int) error {
	for i, sec := range sections {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s (%d)\n", taxonomy.ToDisplayLabel(sec.Label), len(sec.Payers))
		tw := newTable(out)
		for _, p := range sec.Payers {
			fmt.Fprintf(tw, "  %s\t%s\n", p.PayerID, p.DisplayName())
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	footer(out, v, maxPage)
	return nil
}

func renderGroups(out io.Writer, v paging.View[registry.Group], maxPage int) error {
	var walk func(g registry.Group, depth int)
	walk = func(g registry.Group, depth int) {
		fmt.Fprintf(out, "%s%s  [%s]\n", strings.Repeat("  ", depth), taxonomy.ToDisplayLabel(g.GroupName), g.GroupID)
		for _, child := range g.Children {
			walk(child, depth+1)
		}
	}
	for _, g := range v.Items {
		walk(g, 0)
	}
	footer(out, v, maxPage)
	return nil
}
