package vdom

import (
	"strings"
	"testing"
)

func TestElBuildsNode(t *testing.T) {
	node := A(
		Href("/about"),
		Class("nav-item"),
		nil, // conditional attribute slot
		Text("About"),
	)

	if node.Kind != KindElement || node.Tag != "a" {
		t.Fatalf("node = %+v, want element <a>", node)
	}
	if got := node.Props["href"]; got != "/about" {
		t.Errorf("href = %v, want %q", got, "/about")
	}
	if got := node.Props["class"]; got != "nav-item" {
		t.Errorf("class = %v, want %q", got, "nav-item")
	}
	if len(node.Children) != 1 || node.Children[0].Text != "About" {
		t.Errorf("children = %+v, want single text node", node.Children)
	}
}

func TestElStringShorthand(t *testing.T) {
	node := Span("hello")
	if len(node.Children) != 1 || node.Children[0].Kind != KindText {
		t.Fatalf("children = %+v, want one text node", node.Children)
	}
}

func TestElNestedChildren(t *testing.T) {
	node := Ul([]*VNode{Li(Text("a")), Li(Text("b")), nil})
	if len(node.Children) != 2 {
		t.Errorf("len(children) = %d, want 2 (nil dropped)", len(node.Children))
	}
}

func TestIsInteractive(t *testing.T) {
	plain := A(Href("/x"))
	if plain.IsInteractive() {
		t.Error("plain anchor reported interactive")
	}
	clickable := A(Href("#top"), OnClick(func() {}))
	if !clickable.IsInteractive() {
		t.Error("anchor with onclick not reported interactive")
	}
	var nilNode *VNode
	if nilNode.IsInteractive() {
		t.Error("nil node reported interactive")
	}
}

func TestRenderString(t *testing.T) {
	tests := []struct {
		name string
		node *VNode
		want string
	}{
		{
			name: "anchor with attributes",
			node: A(Href("/about"), Class("active"), Text("About")),
			want: `<a class="active" href="/about">About</a>`,
		},
		{
			name: "text is escaped",
			node: Span(Text(`<script>"x"</script>`)),
			want: "<span>&lt;script&gt;&#34;x&#34;&lt;/script&gt;</span>",
		},
		{
			name: "handlers are skipped",
			node: A(Href("#top"), OnClick(func() {}), Text("Top")),
			want: `<a href="#top">Top</a>`,
		},
		{
			name: "fragment flattens",
			node: Fragment(Span(Text("a")), Span(Text("b"))),
			want: "<span>a</span><span>b</span>",
		},
		{
			name: "boolean attribute",
			node: El("input", Attr{Key: "disabled", Value: true}),
			want: "<input disabled>",
		},
		{
			name: "false boolean omitted",
			node: El("input", Attr{Key: "disabled", Value: false}),
			want: "<input>",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RenderString(tc.node); got != tc.want {
				t.Errorf("RenderString() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRenderStringHID(t *testing.T) {
	node := A(Href("#top"), Text("Top"))
	node.HID = "h3"
	got := RenderString(node)
	if !strings.Contains(got, `data-hid="h3"`) {
		t.Errorf("RenderString() = %q, want data-hid attribute", got)
	}
}

func TestFuncComponent(t *testing.T) {
	comp := Func(func() *VNode { return Div(Text("x")) })
	node := comp.Render()
	if node.Tag != "div" {
		t.Errorf("Render().Tag = %q, want %q", node.Tag, "div")
	}
}
