package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/tlcaputi/territories-mortality-stats/internal/icd"
	"github.com/tlcaputi/territories-mortality-stats/internal/mortality"
)

// ConsoleSink prints a human-readable summary: one block per
// jurisdiction plus a totals table, in registry order.
type ConsoleSink struct {
	Out   io.Writer
	Rules icd.Rules

	// TopCauses limits the drug-related cause listing per jurisdiction;
	// 0 means 10.
	TopCauses int
}

const consoleRule = 70

func (c ConsoleSink) Write(res *mortality.Results) error {
	top := c.TopCauses
	if top <= 0 {
		top = 10
	}

	heavy := strings.Repeat("=", consoleRule)
	light := strings.Repeat("-", consoleRule)

	fmt.Fprintln(c.Out, heavy)
	fmt.Fprintln(c.Out, "TERRITORY MORTALITY STATISTICS")
	fmt.Fprintln(c.Out, heavy)
	fmt.Fprintf(c.Out, "\nTotal records processed: %d\n\n", res.TotalRecords)

	for _, code := range res.Registry.Codes() {
		name := res.Registry.Name(code)
		s, ok := res.Jurisdictions[code]
		if !ok {
			fmt.Fprintf(c.Out, "%s: no records found\n\n", name)
			continue
		}

		fmt.Fprintln(c.Out, light)
		fmt.Fprintf(c.Out, "%s (%s)\n", name, code)
		fmt.Fprintln(c.Out, light)
		fmt.Fprintf(c.Out, "  Total Deaths:         %d\n", s.TotalDeaths)
		fmt.Fprintf(c.Out, "  Suicide Deaths:       %d\n", s.SuicideDeaths)
		fmt.Fprintf(c.Out, "  Drug Overdose Deaths: %d\n", s.OverdoseDeaths)
		fmt.Fprintf(c.Out, "  Drug-Related Deaths:  %d\n", s.DrugRelatedDeaths)
		fmt.Fprintf(c.Out, "  Accidental Deaths:    %d\n", s.AccidentalDeaths)
		fmt.Fprintf(c.Out, "  Homicide Deaths:      %d\n", s.HomicideDeaths)
		fmt.Fprintf(c.Out, "  Natural Deaths:       %d\n", s.NaturalDeaths)

		c.writeDrugCauses(s, top)
		fmt.Fprintln(c.Out)
	}

	fmt.Fprintln(c.Out, heavy)
	fmt.Fprintln(c.Out, "SUMMARY")
	fmt.Fprintln(c.Out, heavy)

	tw := tabwriter.NewWriter(c.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Jurisdiction\tTotal\tSuicide\tOverdose\tDrug-Related")
	for _, code := range res.Registry.Codes() {
		s, ok := res.Jurisdictions[code]
		if !ok {
			fmt.Fprintf(tw, "%s\tN/A\tN/A\tN/A\tN/A\n", res.Registry.Name(code))
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n",
			res.Registry.Name(code), s.TotalDeaths, s.SuicideDeaths,
			s.OverdoseDeaths, s.DrugRelatedDeaths)
	}
	return tw.Flush()
}

// writeDrugCauses lists the most frequent drug-related underlying causes
// for one jurisdiction.
func (c ConsoleSink) writeDrugCauses(s *mortality.Stats, top int) {
	var printed int
	for _, code := range sortedCauses(s) {
		if !c.Rules.DrugRelated(code) {
			continue
		}
		if printed == 0 {
			fmt.Fprintln(c.Out, "\n  Drug-Related Underlying Causes:")
		}
		fmt.Fprintf(c.Out, "    %s: %d\n", displayCode(code), s.UnderlyingCauseCounts[code])
		printed++
		if printed >= top {
			break
		}
	}
}
