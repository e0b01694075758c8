package report

import (
	"strings"
	"testing"

	"github.com/nao1215/crawldigest/internal/model"
)

// TestMarkdownRenderer tests the plain Markdown layout.
func TestMarkdownRenderer(t *testing.T) {
	t.Parallel()

	t.Run("renders every section of a record", func(t *testing.T) {
		t.Parallel()

		got, err := NewMarkdownRenderer().Render([]*model.PageRecord{sampleRecord()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "# No title\n\n" +
			"**URL:** u\n\n" +
			"**Description:** No description\n\n" +
			"---\n\n" +
			"## Page Headings\n\n" +
			"# A\n" +
			"\n" +
			"## Content\n\n" +
			"B\n\n" +
			"## Lists\n\n" +
			"### UL List\n\n" +
			"* C\n" +
			"\n" +
			"## Tables\n\n" +
			"| D | E |\n" +
			"| --- | --- |\n" +
			"\n"
		if got != want {
			t.Errorf("unexpected output:\n got  %q\n want %q", got, want)
		}
	})

	t.Run("renders levels ordered lists and table bodies", func(t *testing.T) {
		t.Parallel()

		got, err := NewMarkdownRenderer().Render([]*model.PageRecord{richRecord()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "# Example\n\n" +
			"**URL:** https://example.com/\n\n" +
			"**Description:** An example page\n\n" +
			"---\n\n" +
			"## Page Headings\n\n" +
			"# Top\n" +
			"### Deep\n" +
			"\n" +
			"## Content\n\n" +
			"First.\n\n" +
			"Second.\n\n" +
			"## Lists\n\n" +
			"### UL List\n\n" +
			"* apple\n" +
			"* pear\n" +
			"\n" +
			"### OL List\n\n" +
			"1. one\n" +
			"1. two\n" +
			"\n" +
			"## Tables\n\n" +
			"| Name | Age |\n" +
			"| --- | --- |\n" +
			"| Ann | 30 |\n" +
			"| Bob |\n" +
			"\n"
		if got != want {
			t.Errorf("unexpected output:\n got  %q\n want %q", got, want)
		}
	})

	t.Run("omits empty sections", func(t *testing.T) {
		t.Parallel()

		got, err := NewMarkdownRenderer().Render([]*model.PageRecord{bareRecord("x")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "# T\n\n**URL:** x\n\n**Description:** d\n\n---\n\n"
		if got != want {
			t.Errorf("unexpected output: %q", got)
		}
		for _, header := range []string{"## Page Headings", "## Content", "## Lists", "## Tables"} {
			if strings.Contains(got, header) {
				t.Errorf("unexpected %q section", header)
			}
		}
	})

	t.Run("joins records with a rule", func(t *testing.T) {
		t.Parallel()

		got, err := NewMarkdownRenderer().Render([]*model.PageRecord{bareRecord("a"), bareRecord("b")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		section := func(url string) string {
			return "# T\n\n**URL:** " + url + "\n\n**Description:** d\n\n---\n\n"
		}
		want := section("a") + "\n---\n\n" + section("b")
		if got != want {
			t.Errorf("unexpected output: %q", got)
		}
	})

	t.Run("no records render as an empty document", func(t *testing.T) {
		t.Parallel()

		got, err := NewMarkdownRenderer().Render(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "" {
			t.Errorf("expected empty output, got %q", got)
		}
	})

	t.Run("text is not escaped", func(t *testing.T) {
		t.Parallel()

		record := bareRecord("x")
		record.Title = "A | B *bold*"
		got, err := NewMarkdownRenderer().Render([]*model.PageRecord{record})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(got, "# A | B *bold*\n") {
			t.Errorf("unexpected output: %q", got)
		}
	})
}
