package cli

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/docassist/internal/client/guard"
)

// Documents refreshes and prints the document list.
func (a *App) Documents(ctx context.Context) error {
	docs, err := a.docs.List(ctx)
	if err != nil {
		return err
	}

	a.outMu.Lock()
	defer a.outMu.Unlock()
	renderDocuments(a.out, docs)
	if len(docs) > 0 {
		fmt.Fprintf(a.out, "%d document(s), %d ready, %d chunks indexed\n", len(docs), a.docs.ReadyCount(), a.docs.TotalChunks())
	}
	return nil
}

// Show fetches one document and prints it.
func (a *App) Show(ctx context.Context, id string) error {
	d, err := a.docs.Get(ctx, id)
	if err != nil {
		return err
	}

	a.outMu.Lock()
	defer a.outMu.Unlock()
	renderDocument(a.out, d)
	return nil
}

// Status prints the processing status of one document.
func (a *App) Status(ctx context.Context, id string) error {
	st, err := a.docs.Status(ctx, id)
	if err != nil {
		return err
	}
	a.printf("%s  %s  %d chunks\n", st.ID, statusLabel(st.Status), st.ChunkCount)
	return nil
}

// Upload sends a local file and refreshes the list.
func (a *App) Upload(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" && len(content) > 0 {
		contentType = http.DetectContentType(content)
	}

	doc, err := a.docs.Upload(ctx, filepath.Base(path), contentType, content)
	if err != nil {
		return err
	}
	a.docs.Track(doc)
	a.printf("Uploaded %s as %s (%s)\n", doc.Filename, doc.ID, statusLabel(doc.Status))

	if _, err := a.docs.List(ctx); err != nil {
		a.logger.Warn(ctx, "refresh after upload", "error", err)
	}
	return nil
}

// Delete removes a document. Leaving its detail view goes back to the
// dashboard.
func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.docs.Delete(ctx, id); err != nil {
		return err
	}
	a.printf("Deleted %s\n", id)

	if a.currentDocumentID() == id {
		return a.enter(ctx, guard.PathDashboard)
	}
	return nil
}

// Poll checks in-progress documents once and prints the tracked set.
func (a *App) Poll(ctx context.Context) error {
	n, err := a.docs.PollOnce(ctx)
	if err != nil {
		return err
	}
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, "%d document(s) changed\n", n)
	renderDocuments(a.out, a.docs.Documents())
	return nil
}
