package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/crawldigest/internal/model"
)

// GFMRenderer renders records as GitHub-flavored Markdown using
// github.com/nao1215/markdown.
//
// Unlike MarkdownRenderer it numbers ordered lists, pads table rows to the
// width of the widest row and escapes pipes inside cells, so every table
// renders on GitHub. Page headings are listed in a Level/Text table to
// keep them out of the document outline.
type GFMRenderer struct{}

// NewGFMRenderer creates a GFMRenderer.
func NewGFMRenderer() *GFMRenderer {
	return &GFMRenderer{}
}

// Name implements Renderer.
func (r *GFMRenderer) Name() string {
	return FormatGFM
}

// Render implements Renderer.
func (r *GFMRenderer) Render(records []*model.PageRecord) (string, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	for i, record := range records {
		if i > 0 {
			md.HorizontalRule()
			md.PlainText("")
		}
		r.renderRecord(md, record)
	}

	if err := md.Error(); err != nil {
		return "", fmt.Errorf("failed to render gfm: %w", err)
	}
	return md.String(), nil
}

func (r *GFMRenderer) renderRecord(md *markdown.Markdown, record *model.PageRecord) {
	md.H1(record.Title)
	md.PlainText("")
	md.PlainTextf("%s %s", markdown.Bold("URL:"), markdown.Link(record.URL, record.URL))
	md.PlainText("")
	md.PlainTextf("%s %s", markdown.Bold("Description:"), record.Description)
	md.PlainText("")

	content := record.Content
	if content.IsEmpty() {
		md.Note("No content was extracted from this page.")
		md.PlainText("")
		return
	}

	if len(content.Headings) > 0 {
		rows := make([][]string, 0, len(content.Headings))
		for _, heading := range content.Headings {
			rows = append(rows, []string{"h" + strconv.Itoa(heading.Level), escapeCell(heading.Text)})
		}
		md.H2("Page Headings")
		md.PlainText("")
		md.Table(markdown.TableSet{Header: []string{"Level", "Text"}, Rows: rows})
	}

	if len(content.Paragraphs) > 0 {
		md.H2("Content")
		md.PlainText("")
		for _, paragraph := range content.Paragraphs {
			md.PlainText(paragraph)
			md.PlainText("")
		}
	}

	if len(content.Lists) > 0 {
		md.H2("Lists")
		md.PlainText("")
		for _, list := range content.Lists {
			md.H3(listTitle(list.Kind))
			md.PlainText("")
			if list.Kind == model.ListOrdered {
				md.OrderedList(list.Items...)
			} else {
				md.BulletList(list.Items...)
			}
			md.PlainText("")
		}
	}

	if len(content.Tables) > 0 {
		md.H2("Tables")
		md.PlainText("")
		for _, table := range content.Tables {
			if len(table) == 0 {
				continue
			}
			width := table.Width()
			body := table.Body()
			rows := make([][]string, 0, len(body))
			for _, row := range body {
				rows = append(rows, padRow(row, width))
			}
			md.Table(markdown.TableSet{Header: padRow(table.Header(), width), Rows: rows})
		}
	}
}

// listTitle returns e.g. "Unordered List".
// A Caser keeps state, so each call gets its own.
func listTitle(kind model.ListKind) string {
	name := "unordered list"
	if kind == model.ListOrdered {
		name = "ordered list"
	}
	return cases.Title(language.English).String(name)
}

// padRow escapes the cells of row and pads it with empty cells up to width.
func padRow(row model.Row, width int) []string {
	cells := make([]string, width)
	for i, cell := range row {
		cells[i] = escapeCell(cell)
	}
	return cells
}

func escapeCell(text string) string {
	text = strings.ReplaceAll(text, "|", `\|`)
	return strings.Join(strings.Fields(text), " ")
}
