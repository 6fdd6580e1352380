package diagram

import (
	"regexp"
	"strings"
)

// mermaidBlock matches a ```mermaid block up to its closing fence, or up to
// the end of a document cut off before the block was closed. Groups: indent,
// CR of the opening line, body, CR of the closing line.
var mermaidBlock = regexp.MustCompile("(?ms)^([ \\t]*)```mermaid[ \\t]*(\\r?)\\n(.*?)(?:^[ \\t]*```[ \\t]*(\\r?)$|\\z)")

// NormalizeMarkdown rewrites every ```mermaid block of a markdown document
// with its normalized body. Text outside those blocks is left untouched, and
// a CRLF document keeps CRLF line ends inside the block. A block left open
// at the end of the document is normalized and closed.
func NormalizeMarkdown(doc string) string {
	return mermaidBlock.ReplaceAllStringFunc(doc, func(block string) string {
		m := mermaidBlock.FindStringSubmatch(block)
		indent, cr, body, closingCR := m[1], m[2], m[3], m[4]

		normalized := Normalize(body)
		if cr != "" {
			normalized = strings.ReplaceAll(normalized, "\n", "\r\n")
		}
		return indent + "```mermaid" + cr + "\n" + normalized + cr + "\n" + indent + "```" + closingCR
	})
}
