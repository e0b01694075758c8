package report

import (
	"strconv"
	"strings"

	"github.com/nao1215/crawldigest/internal/model"
)

// textRule frames a plain-text document.
var textRule = strings.Repeat("=", 80)

// TextRenderer renders records as plain text for terminal display.
//
// Each record starts with URL, TITLE and DESCRIPTION lines followed by
// optional HEADINGS, CONTENT, LISTS and TABLES blocks. The whole document
// is framed by rules of 80 "=" characters.
type TextRenderer struct{}

// NewTextRenderer creates a TextRenderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Name implements Renderer.
func (r *TextRenderer) Name() string {
	return FormatText
}

// Render implements Renderer.
func (r *TextRenderer) Render(records []*model.PageRecord) (string, error) {
	sections := make([]string, 0, len(records))
	for _, record := range records {
		sections = append(sections, r.renderRecord(record))
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(textRule)
	sb.WriteString("\n")
	sb.WriteString(strings.Join(sections, "\n"))
	sb.WriteString(textRule)
	sb.WriteString("\n")
	return sb.String(), nil
}

func (r *TextRenderer) renderRecord(record *model.PageRecord) string {
	var sb strings.Builder

	sb.WriteString("URL: " + record.URL + "\n")
	sb.WriteString("TITLE: " + record.Title + "\n")
	sb.WriteString("DESCRIPTION: " + record.Description + "\n\n")

	content := record.Content

	if len(content.Headings) > 0 {
		sb.WriteString("HEADINGS:\n")
		for _, heading := range content.Headings {
			sb.WriteString("H" + strconv.Itoa(heading.Level) + ": " + heading.Text + "\n")
		}
		sb.WriteString("\n")
	}

	if len(content.Paragraphs) > 0 {
		sb.WriteString("CONTENT:\n")
		for _, paragraph := range content.Paragraphs {
			sb.WriteString(paragraph + "\n")
		}
		sb.WriteString("\n")
	}

	if len(content.Lists) > 0 {
		sb.WriteString("LISTS:\n")
		for _, list := range content.Lists {
			sb.WriteString(listLabel(list.Kind) + " List:\n")
			for _, item := range list.Items {
				sb.WriteString("• " + item + "\n")
			}
		}
		sb.WriteString("\n")
	}

	if len(content.Tables) > 0 {
		sb.WriteString("TABLES:\n")
		for _, table := range content.Tables {
			for _, row := range table {
				writeTableRow(&sb, row)
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
