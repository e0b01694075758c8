package crawler

import (
	"iter"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// LinkFunc yields the candidate outbound URLs of a page.
type LinkFunc func(pageURL, markup string) iter.Seq[string]

// Links returns the href of every anchor element in markup, in document order.
//
// The sequence is lazy and restartable: each iteration tokenizes markup
// again and holds no state between iterations. Anchors without an href
// attribute are skipped. An href starting with "/" is resolved against
// pageURL; every other href (relative, absolute, fragment, mailto: and so
// on) is yielded unchanged. No other filtering is applied.
func Links(pageURL, markup string) iter.Seq[string] {
	return func(yield func(string) bool) {
		z := html.NewTokenizer(strings.NewReader(markup))
		for {
			switch z.Next() {
			case html.ErrorToken:
				// io.EOF or a tokenizer error; either way the input is exhausted.
				return
			case html.StartTagToken, html.SelfClosingTagToken:
				name, hasAttr := z.TagName()
				if string(name) != "a" || !hasAttr {
					continue
				}
				href, ok := hrefAttr(z)
				if !ok {
					continue
				}
				if !yield(resolveLink(pageURL, href)) {
					return
				}
			}
		}
	}
}

// CollectLinks materializes Links into a slice.
func CollectLinks(pageURL, markup string) []string {
	links := make([]string, 0)
	for link := range Links(pageURL, markup) {
		links = append(links, link)
	}
	return links
}

// hrefAttr returns the value of the first href attribute of the current tag.
func hrefAttr(z *html.Tokenizer) (string, bool) {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "href" {
			return string(val), true
		}
		if !more {
			return "", false
		}
	}
}

// resolveLink resolves root-relative hrefs against pageURL.
// An href that cannot be resolved is returned unchanged.
func resolveLink(pageURL, href string) string {
	if !strings.HasPrefix(href, "/") {
		return href
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}

	return base.ResolveReference(ref).String()
}
