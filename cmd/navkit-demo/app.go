package main

import (
	"net/url"

	"github.com/vango-go/navkit/pkg/navlink"
	"github.com/vango-go/navkit/pkg/protocol"
	"github.com/vango-go/navkit/pkg/session"
	"github.com/vango-go/navkit/pkg/urlmatch"
	"github.com/vango-go/navkit/pkg/vdom"
)

// demoApp builds the demo page: a navbar exercising the three link
// flavors, plus enough page content to scroll to.
type demoApp struct {
	base *url.URL
}

// Root builds the component tree for one session.
func (a *demoApp) Root(sess *session.Session) *vdom.VNode {
	home := a.link(sess, map[string]any{"href": "/", "class": "nav-item"}, urlmatch.MatchExact, "Home")
	docs := a.link(sess, map[string]any{"href": "/docs", "class": "nav-item"}, urlmatch.MatchPrefix, "Docs")
	features := a.link(sess, map[string]any{"href": "#features", "class": "nav-item"}, urlmatch.MatchExact, "Features")

	return vdom.Div(
		vdom.Header(vdom.Class("site-header"),
			vdom.Nav(vdom.Class("navbar"), home, docs, features),
		),
		vdom.Main(
			vdom.Section(vdom.ID("intro"),
				vdom.H1("navkit demo"),
				vdom.P("Navigate around to watch the active link follow you."),
			),
			vdom.Section(vdom.ID("features"),
				vdom.H2("Features"),
				vdom.P("Exact and prefix matching, trailing-slash tolerance, and smooth in-page scrolling."),
			),
		),
	)
}

// link builds, mounts, and renders one navbar link. When the active
// flag flips, the new class string is patched onto the anchor the
// session hydrated.
func (a *demoApp) link(sess *session.Session, attrs map[string]any, mode urlmatch.Mode, label string) *vdom.VNode {
	l := navlink.New(
		navlink.WithBase(a.base),
		navlink.WithMatch(mode),
		navlink.WithScrollRuntime(sess),
	)
	if err := l.SetAttributes(attrs); err != nil {
		// Hrefs here are static; a failure is a programming error.
		panic(err)
	}
	l.SetChildren(label)

	var node *vdom.VNode
	if err := l.Mount(sess.Location(), func() {
		if node == nil || node.HID == "" {
			return
		}
		sess.SendPatches([]protocol.Patch{
			protocol.NewSetAttrPatch(node.HID, "class", l.State().CSSClass),
		})
	}); err != nil {
		panic(err)
	}
	sess.Own(l)

	node = l.Render()
	return node
}
