package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/docproc/internal/client/models"
)

const dateLayout = "2006-01-02 15:04"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// renderDocumentList prints the dashboard table.
func renderDocumentList(w io.Writer, docs []models.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents yet. Use 'upload <path>' to add one.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSTATUS\tUPLOADED")
	for _, d := range docs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", d.ID, orDash(d.Name()), d.DisplayType(), orDash(string(d.Status)), formatDate(d.UploadedAt))
	}
	_ = tw.Flush()
}

// renderDocument prints the detail page of a loaded document.
func renderDocument(w io.Writer, d models.Document) {
	fmt.Fprintf(w, "Document %d: %s\n", d.ID, orDash(d.Name()))
	fmt.Fprintf(w, "Type:     %s\n", d.DisplayType())
	fmt.Fprintf(w, "Status:   %s\n", orDash(string(d.Status)))
	fmt.Fprintf(w, "Uploaded: %s\n", formatDate(d.UploadedAt))
	fmt.Fprintln(w)

	if len(d.ExtractedData) == 0 {
		fmt.Fprintln(w, "No extracted data. Run 'process <id>' to extract it.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "FIELD\tKEY\tVALUE\tVALIDATED")
	for _, f := range d.ExtractedData {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", f.ID, f.Key, f.Value, yesNo(f.IsValidated))
	}
	_ = tw.Flush()
	fmt.Fprintln(w, "Use 'edit <field>' to change a value.")
}

func renderDetailError(w io.Writer, msg string) {
	fmt.Fprintln(w, "Error:", msg)
	fmt.Fprintln(w, "Back to Dashboard: type 'list'")
}

func renderNotFound(w io.Writer) {
	fmt.Fprintln(w, "Document not found.")
	fmt.Fprintln(w, "Back to Dashboard: type 'list'")
}

func renderStats(w io.Writer, s models.Stats) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Total\t%d\n", s.TotalDocuments)
	fmt.Fprintf(tw, "Pending\t%d\n", s.Pending)
	fmt.Fprintf(tw, "Processing\t%d\n", s.Processing)
	fmt.Fprintf(tw, "Completed\t%d\n", s.Completed)
	fmt.Fprintf(tw, "Error\t%d\n", s.Error)
	_ = tw.Flush()
}
