package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	apiclient "github.com/donaldgifford/restock-tracker/internal/api/client"
	domain "github.com/donaldgifford/restock-tracker/pkg/types"
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

func printSweepStats(s domain.SweepStats) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("CHECKED\tALERTS\tERRORS\n")
	tw.writef("%d\t%d\t%d\n", s.Checked, s.Alerts, s.Errors)
	return tw.finish()
}

func printFeedScanStats(s domain.FeedScanStats) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("PAGES\tITEMS\tALERTS\tERRORS\n")
	tw.writef("%d\t%d\t%d\t%d\n", s.Pages, s.Items, s.Alerts, s.Errors)
	return tw.finish()
}

func printStatus(st *apiclient.Status) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Status:\t%s\n", st.Status)
	tw.writef("Service:\t%s\n", st.Service)
	tw.writef("Message:\t%s\n", st.Message)
	tw.writef("Vendors:\t%d\n", st.Vendors)
	tw.writef("Trackers:\t%d\n", st.Trackers)
	next := "-"
	if st.NextSweep != nil {
		next = st.NextSweep.Local().Format(time.DateTime)
	}
	tw.writef("Next Sweep:\t%s\n", next)
	return tw.finish()
}

func printCatalog(cat *apiclient.Catalog) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("VENDOR\tKIND\tENTRIES\tLOCATIONS\tCUSTOM\n")
	for i := range cat.Vendors {
		v := &cat.Vendors[i]
		locs := "-"
		if v.RequiresLocation {
			locs = truncate(strings.Join(v.Locations, ","), 40)
		}
		tw.writef("%s\t%s\t%d\t%s\t%v\n", v.Name, v.Kind, v.Entries, locs, v.CustomTransport)
	}
	if len(cat.Trackers) > 0 {
		tw.writef("\nTRACKER\tNAME\tPAGES\tPRODUCTS\n")
		for i := range cat.Trackers {
			t := &cat.Trackers[i]
			tw.writef("%s\t%s\t%s\t%d\n", t.Slug, t.Name, joinInts(t.Pages), t.Products)
		}
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ",")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
