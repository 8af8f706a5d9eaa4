package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/docproc/internal/client/client"
	"github.com/dmitrijs2005/docproc/internal/client/export"
	"github.com/dmitrijs2005/docproc/internal/client/models"
	"github.com/dmitrijs2005/docproc/internal/client/services"
	"github.com/dmitrijs2005/docproc/internal/client/sources"
)

var errUsage = errors.New("usage")

func (a *App) usage(text string) error {
	fmt.Fprintln(a.out, "Usage:", text)
	return errUsage
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// documentError picks the store's banner for err, falling back to the
// message the error itself carries.
func (a *App) documentError(err error, fallback string) string {
	msg := a.documents.Error()
	if msg == "" {
		msg = client.DisplayMessage(err, fallback)
	}
	a.documents.ClearError()
	return msg
}

// Dashboard lists the user's documents. When the backend is unreachable the
// last cached list is shown instead.
func (a *App) Dashboard(ctx context.Context) error {
	if !a.requireSession(ctx) {
		return services.ErrNotAuthenticated
	}

	err := a.documents.FetchDocuments(ctx)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrSuperseded):
		return nil
	case errors.Is(err, client.ErrUnavailable):
		a.documents.ClearError()
		if _, cacheErr := a.documents.LoadCached(ctx); cacheErr != nil {
			a.logger.Warn(ctx, "no cached documents", "error", cacheErr)
			fmt.Fprintln(a.out, "Error: Server unavailable and no cached documents.")
			return err
		}
		fmt.Fprintln(a.out, "Server unavailable, showing cached documents.")
	default:
		fmt.Fprintln(a.out, "Error:", a.documentError(err, "Failed to fetch documents"))
		return err
	}

	renderDocumentList(a.out, a.documents.Documents())
	return nil
}

// Show is the detail page: loading, then error, not found or the document.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("show <document-id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	if !a.requireSession(ctx) {
		return services.ErrNotAuthenticated
	}

	fmt.Fprintf(a.out, "Loading document %d...\n", id)
	err = a.documents.FetchDocument(ctx, id)
	switch {
	case errors.Is(err, services.ErrSuperseded):
		return nil
	case err != nil:
		renderDetailError(a.out, a.documentError(err, "Failed to fetch document"))
		return err
	}

	doc := a.documents.Current()
	if doc == nil || doc.ID != id {
		renderNotFound(a.out)
		return nil
	}
	renderDocument(a.out, *doc)
	return nil
}

// Edit runs the edit cycle for one field of the document on screen. A failed
// save keeps the draft and offers a retry; declining restores the field.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("edit <field-id>")
	}
	fieldID, err := parseID(args[0])
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	if !a.requireSession(ctx) {
		return services.ErrNotAuthenticated
	}

	doc := a.documents.Current()
	if doc == nil {
		fmt.Fprintln(a.out, "Open a document with 'show <id>' first.")
		return errUsage
	}
	field, ok := doc.Field(fieldID)
	if !ok {
		fmt.Fprintf(a.out, "Field %d is not part of document %d.\n", fieldID, doc.ID)
		return errUsage
	}

	edit := services.NewFieldEdit(a.documents, *field)
	edit.Begin()

	for {
		value, err := getSimpleText(a.reader, fmt.Sprintf("New value for %q (empty keeps %q)", field.Key, edit.Value()), a.out)
		if err != nil {
			edit.Cancel()
			return err
		}
		if value != "" {
			_ = edit.SetValue(value)
		}

		validated, err := getYesNo(a.reader, "Mark as validated?", edit.Validated(), a.out)
		if err != nil {
			edit.Cancel()
			return err
		}
		_ = edit.SetValidated(validated)

		saveErr := edit.Save(ctx)
		if saveErr == nil {
			f := edit.Field()
			fmt.Fprintf(a.out, "Saved %s = %q (validated: %s)\n", f.Key, f.Value, yesNo(f.IsValidated))
			return nil
		}

		fmt.Fprintln(a.out, "Error:", a.documentError(saveErr, "Failed to save field"))
		retry, err := getYesNo(a.reader, "Retry?", true, a.out)
		if err != nil || !retry {
			edit.Cancel()
			fmt.Fprintln(a.out, "Edit cancelled.")
			return saveErr
		}
	}
}

// Upload sends a local, s3:// or gs:// file. PDFs are validated first.
func (a *App) Upload(ctx context.Context, args []string) error {
	if !a.requireSession(ctx) {
		return services.ErrNotAuthenticated
	}

	var (
		location string
		title    string
		err      error
	)
	if len(args) > 0 {
		location = args[0]
		title = strings.Join(args[1:], " ")
	} else {
		location, err = getSimpleText(a.reader, "Enter file (path, s3://bucket/key or gs://bucket/object)", a.out)
		if err != nil {
			return err
		}
		if title, err = getSimpleText(a.reader, "Enter title (optional)", a.out); err != nil {
			return err
		}
	}
	if location == "" {
		return a.usage("upload <path> [title]")
	}

	src, err := a.opener.Open(ctx, location)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	src, pages, err := sources.Prepare(src)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	defer src.Body.Close()

	if pages > 0 {
		fmt.Fprintf(a.out, "%s: valid PDF, %d page(s)\n", src.Name, pages)
	}

	doc, err := a.documents.UploadDocument(ctx, src.Name, src.Body, title)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", a.documentError(err, "Failed to upload document"))
		return err
	}

	fmt.Fprintf(a.out, "Uploaded document %d (%s), status %s\n", doc.ID, orDash(doc.Name()), orDash(string(doc.Status)))
	return nil
}

// Process asks the backend to run extraction and reports the new status.
func (a *App) Process(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("process <document-id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	if !a.requireSession(ctx) {
		return services.ErrNotAuthenticated
	}

	fmt.Fprintf(a.out, "Processing document %d...\n", id)
	doc, err := a.documents.ProcessDocument(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", a.documentError(err, "Failed to process document"))
		return err
	}

	fmt.Fprintf(a.out, "Document %d: status %s, type %s, %d field(s)\n",
		doc.ID, orDash(string(doc.Status)), doc.DisplayType(), len(doc.ExtractedData))
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	if !a.requireSession(ctx) {
		return services.ErrNotAuthenticated
	}

	stats, err := a.documents.FetchStats(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", a.documentError(err, "Failed to fetch stats"))
		return err
	}
	renderStats(a.out, *stats)
	return nil
}

// Export writes a document's extracted fields to an .xlsx file. The
// document on screen is reused when the backend cannot be reached.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.usage("export <document-id> <file.xlsx>")
	}
	id, err := parseID(args[0])
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	path := args[1]
	if !a.requireSession(ctx) {
		return services.ErrNotAuthenticated
	}

	doc, err := a.exportSource(ctx, id)
	if err != nil {
		return err
	}

	if err := export.WriteXLSX(path, *doc); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	fmt.Fprintf(a.out, "Exported %d field(s) of document %d to %s\n", len(doc.ExtractedData), doc.ID, path)
	return nil
}

func (a *App) exportSource(ctx context.Context, id int64) (*models.Document, error) {
	err := a.documents.FetchDocument(ctx, id)
	if err != nil && !errors.Is(err, client.ErrUnavailable) {
		fmt.Fprintln(a.out, "Error:", a.documentError(err, "Failed to fetch document"))
		return nil, err
	}
	a.documents.ClearError()

	doc := a.documents.Current()
	if doc == nil || doc.ID != id {
		if err == nil {
			err = client.ErrNotFound
		}
		fmt.Fprintln(a.out, "Error: Document not available.")
		return nil, err
	}
	if err != nil {
		fmt.Fprintln(a.out, "Server unavailable, exporting the document on screen.")
	}
	return doc, nil
}
