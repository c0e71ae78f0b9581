package docx

import (
	"strings"

	"github.com/matzehuels/polisher/pkg/document"
)

// styleClass is the structural role implied by a paragraph style name.
type styleClass struct {
	role  document.Role
	level int
	list  document.ListKind
}

// classifyStyle maps a style name (or a style id when styles.xml lacks the
// definition) onto a role. Names compare case- and space-insensitively, so
// "Heading 2", "heading2" and "HEADING 2" are the same style.
func classifyStyle(name string) styleClass {
	n := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", ""))

	switch {
	case n == "":
		return styleClass{role: document.RoleUnclassified}
	case n == "title":
		return styleClass{role: document.RoleTitle}
	case n == "subtitle":
		return styleClass{role: document.RoleSubtitle}
	case strings.HasPrefix(n, "heading"):
		if level := atoi(strings.TrimPrefix(n, "heading")); level > 0 {
			return styleClass{role: document.RoleHeading, level: level}
		}
		return styleClass{role: document.RoleBody}
	case strings.HasPrefix(n, "listbullet"):
		return styleClass{role: document.RoleListItem, list: document.ListUnordered}
	case strings.HasPrefix(n, "listnumber"):
		return styleClass{role: document.RoleListItem, list: document.ListOrdered}
	case strings.Contains(n, "quote"):
		return styleClass{role: document.RoleQuote}
	case strings.Contains(n, "caption"):
		return styleClass{role: document.RoleCaption}
	}
	return styleClass{role: document.RoleBody}
}
