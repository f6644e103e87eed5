// Package vdom holds the minimal virtual-DOM model navkit components
// render to: nodes, attributes, event handlers, and an HTML serializer
// for the SSR shell and tests.
package vdom

import "strings"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <a>, <nav>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
)

// VNode is a virtual DOM node.
type VNode struct {
	Kind     VKind
	Tag      string   // Element tag name (e.g., "a")
	Props    Props    // Attributes and event handlers
	Children []*VNode // Child nodes
	Text     string   // For KindText
	HID      string   // Hydration ID (assigned by the session)
}

// Props holds attributes and event handlers.
type Props map[string]any

// IsInteractive returns true if this node carries event handlers and
// therefore needs a hydration ID.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if strings.HasPrefix(key, "on") {
			return true
		}
	}
	return false
}

// Attr is a single attribute or event handler entry.
type Attr struct {
	Key   string
	Value any
}

// Component is anything that can render to a VNode.
type Component interface {
	Render() *VNode
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func() *VNode
}

// Render implements Component.
func (f *FuncComponent) Render() *VNode {
	return f.render()
}

// Func creates a component from a render function.
func Func(render func() *VNode) Component {
	return &FuncComponent{render: render}
}
