package report

import (
	"strings"

	"github.com/nao1215/crawldigest/internal/model"
)

// markdownRecordSeparator joins the sections of consecutive records.
const markdownRecordSeparator = "\n---\n\n"

// MarkdownRenderer renders records as plain Markdown.
//
// The layout is fixed: a header with title, URL and description followed
// by optional "Page Headings", "Content", "Lists" and "Tables" sections.
// Sections whose container is empty are left out. Every list item of an
// ordered list is written as "1." and the first row of a table is always
// its header.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Name implements Renderer.
func (r *MarkdownRenderer) Name() string {
	return FormatMarkdown
}

// Render implements Renderer.
func (r *MarkdownRenderer) Render(records []*model.PageRecord) (string, error) {
	sections := make([]string, 0, len(records))
	for _, record := range records {
		sections = append(sections, r.renderRecord(record))
	}
	return strings.Join(sections, markdownRecordSeparator), nil
}

func (r *MarkdownRenderer) renderRecord(record *model.PageRecord) string {
	var sb strings.Builder

	sb.WriteString("# " + record.Title + "\n\n")
	sb.WriteString("**URL:** " + record.URL + "\n\n")
	sb.WriteString("**Description:** " + record.Description + "\n\n")
	sb.WriteString("---\n\n")

	content := record.Content

	if len(content.Headings) > 0 {
		sb.WriteString("## Page Headings\n\n")
		for _, heading := range content.Headings {
			sb.WriteString(strings.Repeat("#", heading.Level) + " " + heading.Text + "\n")
		}
		sb.WriteString("\n")
	}

	if len(content.Paragraphs) > 0 {
		sb.WriteString("## Content\n\n")
		for _, paragraph := range content.Paragraphs {
			sb.WriteString(paragraph + "\n\n")
		}
	}

	if len(content.Lists) > 0 {
		sb.WriteString("## Lists\n\n")
		for _, list := range content.Lists {
			sb.WriteString("### " + listLabel(list.Kind) + " List\n\n")
			marker := "* "
			if list.Kind == model.ListOrdered {
				marker = "1. "
			}
			for _, item := range list.Items {
				sb.WriteString(marker + item + "\n")
			}
			sb.WriteString("\n")
		}
	}

	if len(content.Tables) > 0 {
		sb.WriteString("## Tables\n\n")
		for _, table := range content.Tables {
			if len(table) == 0 {
				continue
			}
			header := table.Header()
			writeTableRow(&sb, header)
			writeTableRow(&sb, separatorRow(len(header)))
			for _, row := range table.Body() {
				writeTableRow(&sb, row)
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// listLabel returns the upper-case element name of a list kind, e.g. "UL".
func listLabel(kind model.ListKind) string {
	return strings.ToUpper(kind.String())
}

// writeTableRow writes "| a | b |\n".
func writeTableRow(sb *strings.Builder, row model.Row) {
	sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
}

func separatorRow(width int) model.Row {
	row := make(model.Row, width)
	for i := range row {
		row[i] = "---"
	}
	return row
}
