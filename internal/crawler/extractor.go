package crawler

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/crawldigest/internal/model"
)

// ExtractFunc turns a page's markup into a structured record.
// Implementations must be total: they never fail and never return nil.
type ExtractFunc func(pageURL, markup string) *model.PageRecord

// Extract parses markup into a PageRecord.
//
// Script and style subtrees are removed before any text is read, so their
// contents never appear in headings or paragraphs. Only trimmed, non-empty
// texts are kept; lists without items, rows without cells and tables
// without rows are dropped. Missing elements degrade to empty containers
// and the NoTitle/NoDescription sentinels, never to an error.
func Extract(pageURL, markup string) *model.PageRecord {
	record := &model.PageRecord{
		URL:         pageURL,
		Title:       model.NoTitle,
		Description: model.NoDescription,
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return record
	}

	doc.Find("script, style").Remove()

	record.Title = extractTitle(doc)
	record.Description = extractDescription(doc)
	record.Content = model.ContentBlock{
		Headings:   extractHeadings(doc),
		Paragraphs: extractParagraphs(doc),
		Lists:      extractLists(doc),
		Tables:     extractTables(doc),
	}

	return record
}

// extractTitle returns the text of the first <title> element.
func extractTitle(doc *goquery.Document) string {
	title := doc.Find("title").First()
	if title.Length() == 0 {
		return model.NoTitle
	}
	if text := strings.TrimSpace(title.Text()); text != "" {
		return text
	}
	return model.NoTitle
}

// extractDescription returns the content attribute of the first
// <meta name="description"> element.
func extractDescription(doc *goquery.Document) string {
	meta := doc.Find(`meta[name="description"]`).First()
	if content, ok := meta.Attr("content"); ok {
		return content
	}
	return model.NoDescription
}

// extractHeadings scans h1 through h6 in level order, document order within a level.
func extractHeadings(doc *goquery.Document) []model.Heading {
	headings := make([]model.Heading, 0)
	for level := model.MinHeadingLevel; level <= model.MaxHeadingLevel; level++ {
		doc.Find("h" + strconv.Itoa(level)).Each(func(_ int, s *goquery.Selection) {
			if text := trimmedText(s); text != "" {
				headings = append(headings, model.Heading{Level: level, Text: text})
			}
		})
	}
	return headings
}

func extractParagraphs(doc *goquery.Document) []string {
	return collectTexts(doc.Find("p"))
}

// extractLists collects every <ul> and <ol> in document order. Nested lists
// appear both as items of their parent and as lists of their own.
func extractLists(doc *goquery.Document) []model.List {
	lists := make([]model.List, 0)
	doc.Find("ul, ol").Each(func(_ int, s *goquery.Selection) {
		items := collectTexts(s.Find("li"))
		if len(items) == 0 {
			return
		}
		kind := model.ListUnordered
		if goquery.NodeName(s) == "ol" {
			kind = model.ListOrdered
		}
		lists = append(lists, model.List{Kind: kind, Items: items})
	})
	return lists
}

func extractTables(doc *goquery.Document) []model.Table {
	tables := make([]model.Table, 0)
	doc.Find("table").Each(func(_ int, s *goquery.Selection) {
		var table model.Table
		s.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			if cells := collectTexts(tr.Find("td, th")); len(cells) > 0 {
				table = append(table, model.Row(cells))
			}
		})
		if len(table) > 0 {
			tables = append(tables, table)
		}
	})
	return tables
}

// collectTexts returns the trimmed, non-empty texts of a selection.
func collectTexts(sel *goquery.Selection) []string {
	texts := make([]string, 0)
	sel.Each(func(_ int, s *goquery.Selection) {
		if text := trimmedText(s); text != "" {
			texts = append(texts, text)
		}
	})
	return texts
}

func trimmedText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
