package model

// Sentinel values used when a page lacks a title or a meta description.
const (
	// NoTitle is the title of a page without a non-empty <title> element.
	NoTitle = "No title"

	// NoDescription is the description of a page without a
	// <meta name="description"> element carrying a content attribute.
	NoDescription = "No description"
)

// MinHeadingLevel and MaxHeadingLevel bound Heading.Level (h1 through h6).
const (
	MinHeadingLevel = 1
	MaxHeadingLevel = 6
)

// PageRecord is the structured result of extracting one fetched page.
// A record is created once per successfully fetched page and is never
// modified afterwards.
type PageRecord struct {
	// URL is the URL the page was fetched from, exactly as dequeued.
	URL string `json:"url"`

	// Title is the trimmed text of the <title> element, or NoTitle.
	Title string `json:"title"`

	// Description is the content attribute of <meta name="description">,
	// or NoDescription.
	Description string `json:"description"`

	// Content holds the page body structure.
	Content ContentBlock `json:"content"`
}

// ContentBlock is the headings/paragraphs/lists/tables sub-structure of a
// PageRecord. Every container only holds non-empty entries, in document
// order (headings are grouped by level first).
type ContentBlock struct {
	// Headings are h1..h6 elements, level 1 first, document order within a level.
	Headings []Heading `json:"headings"`

	// Paragraphs are the trimmed texts of <p> elements.
	Paragraphs []string `json:"paragraphs"`

	// Lists are <ul> and <ol> elements with at least one non-empty item.
	Lists []List `json:"lists"`

	// Tables are <table> elements with at least one non-empty row.
	Tables []Table `json:"tables"`
}

// IsEmpty reports whether the block has no content at all.
func (c ContentBlock) IsEmpty() bool {
	return len(c.Headings) == 0 &&
		len(c.Paragraphs) == 0 &&
		len(c.Lists) == 0 &&
		len(c.Tables) == 0
}

// Heading is a single h1..h6 element.
type Heading struct {
	// Level is the heading level, between MinHeadingLevel and MaxHeadingLevel.
	Level int `json:"level"`

	// Text is the trimmed text content of the heading.
	Text string `json:"text"`
}

// ListKind distinguishes ordered from unordered lists.
// The values match the HTML element names.
type ListKind string

const (
	// ListUnordered is a <ul> list.
	ListUnordered ListKind = "ul"

	// ListOrdered is an <ol> list.
	ListOrdered ListKind = "ol"
)

// String returns the element name of the list kind.
func (k ListKind) String() string {
	return string(k)
}

// List is a <ul> or <ol> element with its non-empty items.
type List struct {
	// Kind is the list element type.
	Kind ListKind `json:"type"`

	// Items are the trimmed texts of the list's <li> descendants.
	Items []string `json:"items"`
}

// Row is a table row: trimmed, non-empty cell texts in document order.
type Row []string

// Table is a sequence of non-empty rows. Row 0 is not treated specially
// here; renderers decide whether it is a header.
type Table []Row

// Header returns the first row of the table, or nil for an empty table.
func (t Table) Header() Row {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// Body returns every row after the first.
func (t Table) Body() []Row {
	if len(t) < 2 {
		return nil
	}
	return t[1:]
}

// Width returns the number of cells in the widest row.
func (t Table) Width() int {
	width := 0
	for _, row := range t {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}
