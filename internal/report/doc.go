// Package report turns crawled page records into a single document.
//
// Every output format is a Renderer. The markdown and text renderers
// reproduce a fixed layout byte for byte so that their output can be
// compared against golden files; the gfm renderer produces GitHub-flavored
// Markdown with numbered lists and well-formed tables; the json renderer
// emits the records themselves.
//
// Renderers are pure: they never touch the file system. WriteFile stores a
// rendered document.
package report
