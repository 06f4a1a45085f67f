package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/dmitrijs2005/docassist/internal/client/models"
)

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint)

	statusColors = map[models.DocumentStatus]*color.Color{
		models.StatusUploading:  color.New(color.FgCyan),
		models.StatusProcessing: color.New(color.FgYellow),
		models.StatusReady:      color.New(color.FgGreen),
		models.StatusFailed:     color.New(color.FgRed),
	}
	unknownStatusColor = color.New(color.FgMagenta)
)

// statusLabel colours a status. Values the client does not know are shown
// as received.
func statusLabel(s models.DocumentStatus) string {
	if c, ok := statusColors[s]; ok {
		return c.Sprint(string(s))
	}
	if s == "" {
		return unknownStatusColor.Sprint("?")
	}
	return unknownStatusColor.Sprint(string(s))
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func renderDocuments(w io.Writer, docs []models.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents yet. Use 'upload <file>' to add one.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tSTATUS\tCHUNKS")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", d.ID, d.Filename, formatSize(d.FileSize), statusLabel(d.Status), d.ChunkCount)
	}
	_ = tw.Flush()
}

func renderDocument(w io.Writer, d models.Document) {
	fmt.Fprintf(w, "%s\n", bold.Sprint(d.Filename))
	fmt.Fprintf(w, "id:      %s\n", d.ID)
	fmt.Fprintf(w, "type:    %s\n", d.ContentType)
	fmt.Fprintf(w, "size:    %s\n", formatSize(d.FileSize))
	fmt.Fprintf(w, "status:  %s\n", statusLabel(d.Status))
	if d.Status == models.StatusReady {
		fmt.Fprintf(w, "pages:   %d\n", d.PageCount)
		fmt.Fprintf(w, "chunks:  %d\n", d.ChunkCount)
	}
	if !d.CreatedAt.IsZero() {
		fmt.Fprintf(w, "added:   %s\n", d.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}

func renderSessions(w io.Writer, sessions []models.ChatSession, active string) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No conversations yet. Use 'ask <question>' to start one.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tTITLE\tMESSAGES")
	for _, s := range sessions {
		marker := ""
		if s.ID == active {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", marker, s.ID, s.Title, s.MessageCount)
	}
	_ = tw.Flush()
}

func renderMessage(w io.Writer, m models.ChatMessage) {
	who := "you"
	if m.Role == models.RoleAssistant {
		who = "assistant"
	}
	fmt.Fprintf(w, "%s: %s\n", bold.Sprint(who), m.Content)
	renderSources(w, m.SourceChunks)
}

func renderSources(w io.Writer, sources []models.SourceChunk) {
	for i, s := range sources {
		excerpt := strings.Join(strings.Fields(s.Content), " ")
		if r := []rune(excerpt); len(r) > 80 {
			excerpt = string(r[:80]) + "..."
		}
		fmt.Fprintln(w, faint.Sprintf("  [%d] %s (%.2f): %s", i+1, s.DocumentID, s.Score, excerpt))
	}
}

func renderTranscript(w io.Writer, msgs []models.ChatMessage) {
	if len(msgs) == 0 {
		fmt.Fprintln(w, "This conversation is empty.")
		return
	}
	for _, m := range msgs {
		renderMessage(w, m)
	}
}
