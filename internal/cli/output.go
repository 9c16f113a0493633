package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/mesh-intelligence/deeds/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// emit writes v as indented JSON in --json mode, otherwise calls text.
func (a *app) emit(w io.Writer, v any, text func(w io.Writer)) error {
	if !a.jsonMode {
		text(w)
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func printProperty(w io.Writer, p types.Property) {
	fmt.Fprintf(w, "ID:        %d\n", p.ID)
	fmt.Fprintf(w, "Name:      %s\n", p.Name)
	fmt.Fprintf(w, "Location:  %s\n", p.Location)
	fmt.Fprintf(w, "Shares:    %d\n", p.TotalShares)
	fmt.Fprintf(w, "Price:     %d\n", p.PricePerShare)
	fmt.Fprintf(w, "Minted by: %s\n", p.MintedBy)
	fmt.Fprintf(w, "Created:   %s\n", localTime(p.CreatedAt))
}

func printProperties(w io.Writer, props []types.Property) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tSHARES\tPRICE")
	for _, p := range props {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\n", p.ID, p.Name, p.Location, p.TotalShares, p.PricePerShare)
	}
	tw.Flush()
}

func printHolders(w io.Writer, p types.Property, holdings []types.Holding) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "HOLDER\tSHARES\tPERCENT")
	for _, h := range holdings {
		pct := float64(h.Shares) * 100 / float64(p.TotalShares)
		fmt.Fprintf(tw, "%s\t%d\t%.2f%%\n", h.Holder, h.Shares, pct)
	}
	tw.Flush()
}

func printHistory(w io.Writer, entries []types.Entry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tOPERATION\tFROM\tTO\tAMOUNT")
	for _, e := range entries {
		from := e.Sender
		if from == "" {
			from = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", localTime(e.CreatedAt), e.Operation, from, e.Recipient, e.Amount)
	}
	tw.Flush()
}

func localTime(t time.Time) string { return t.Local().Format(timeLayout) }
