package vdom

import (
	"fmt"
	"html"
	"sort"
	"strings"
)

// RenderString serializes a VNode tree to HTML. Event handler props
// ("on"-prefixed) are skipped; the client wires those up from hydration
// IDs. Attribute order is sorted for deterministic output.
func RenderString(node *VNode) string {
	var b strings.Builder
	writeNode(&b, node)
	return b.String()
}

func writeNode(b *strings.Builder, node *VNode) {
	if node == nil {
		return
	}

	switch node.Kind {
	case KindText:
		b.WriteString(html.EscapeString(node.Text))

	case KindFragment:
		for _, child := range node.Children {
			writeNode(b, child)
		}

	case KindElement:
		b.WriteByte('<')
		b.WriteString(node.Tag)
		writeAttrs(b, node)
		b.WriteByte('>')
		if IsVoidElement(node.Tag) {
			return
		}
		for _, child := range node.Children {
			writeNode(b, child)
		}
		b.WriteString("</")
		b.WriteString(node.Tag)
		b.WriteByte('>')
	}
}

func writeAttrs(b *strings.Builder, node *VNode) {
	if node.HID != "" {
		b.WriteString(` data-hid="`)
		b.WriteString(html.EscapeString(node.HID))
		b.WriteByte('"')
	}
	if len(node.Props) == 0 {
		return
	}

	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		if strings.HasPrefix(key, "on") {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Props[key]
		switch v := value.(type) {
		case bool:
			if v {
				b.WriteByte(' ')
				b.WriteString(key)
			}
		case nil:
			// Omit nil-valued attributes.
		default:
			b.WriteByte(' ')
			b.WriteString(key)
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(fmt.Sprintf("%v", v)))
			b.WriteByte('"')
		}
	}
}
