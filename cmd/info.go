package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/robmorgan/metronizer/render"
	"github.com/robmorgan/metronizer/rhythm"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info [project]",
	Short: "Print the sections, bar numbering and duration of a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(pathArg(args))
		if err != nil {
			return err
		}
		return printInfo(cmd.OutOrStdout(), s.timeline)
	},
}

func printInfo(out io.Writer, tl *rhythm.Timeline) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tBARS\tBPM\tSIGNATURE\tCOUNTED\tSTART\tLENGTH")

	sections := tl.Sections()
	start := 0.0
	first := 1
	for i, s := range sections {
		counted := "precount"
		if !s.ExcludedFromCount {
			counted = fmt.Sprintf("%d-%d", first, first+s.BarCount-1)
			first += s.BarCount
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n", i+1, s.BarCount, rhythm.FormatBPM(s.BPM), s.Signature(),
			counted, render.FormatTime(start), render.FormatTime(s.TotalDurationMs()))
		start += s.TotalDurationMs()
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\ntotal %s, %d counted bars\n", render.FormatTime(tl.TotalDuration()), tl.CountedBars())
	for _, c := range tl.Comments() {
		at, ok := rhythm.TimeOfPosition(sections, c.Bar, c.SubBeat)
		when := "not in piece"
		if ok {
			when = render.FormatTime(at)
		}
		fmt.Fprintf(out, "comment bar %d beat %d at %s: %s\n", c.Bar, c.SubBeat, when, c.Message)
	}
	return nil
}
