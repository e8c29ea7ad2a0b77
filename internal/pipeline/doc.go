// Package pipeline turns exported notebook Markdown into a printable HTML
// document for the browser PDF path.
//
// Stages:
//   - Markdown to HTML conversion via Goldmark (raw HTML outputs kept)
//   - relative image and link paths rewritten to file:// URLs
//   - CSS injection into the HTML head
//
// PDF printing itself is handled by the root dfimage package using headless
// Chrome (go-rod).
package pipeline
