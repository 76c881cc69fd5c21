package demos

import (
	"embed"
	"io/fs"

	via "github.com/ryanhamamura/viahooks"
	"github.com/ryanhamamura/viahooks/h"
)

//go:embed assets
var assets embed.FS

// Register mounts every demo page on v. Pass Stylesheet in
// via.Options.Plugins for the demo styles.
func Register(v *via.V, shared *SharedCounter) {
	v.Page("/", App)
	v.Page("/testing", TestingComponent)
	v.Page("/shared", SharedPage(shared))
}

// Stylesheet serves the embedded demo styles under /assets/ and links them
// from every page.
func Stylesheet(v *via.V) {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	v.StaticFS("/assets/", sub)
	v.AppendToHead(h.Link(h.Rel("stylesheet"), h.Href("/assets/app.css")))
}

// App lays out every demo side by side.
func App(c *via.Context) {
	demos := []struct {
		title string
		note  string
		view  func() h.H
	}{
		{"useState demo:", "", c.Component(UseState)},
		{"useEffect demo:", "", c.Component(UseEffect)},
		{"useContext demo:", "", c.Component(UseContext)},
		{"useReducer demo:", "", c.Component(UseReducer)},
		{"Custom Hook demo: ", "(component 1)", c.Component(CustomHook)},
		{"Custom Hook demo: ", "(component 2)", c.Component(CustomHookInput)},
	}

	c.View(func() h.H {
		sections := make([]h.H, 0, len(demos))
		for _, d := range demos {
			sections = append(sections, h.Div(
				h.H2(h.Text(d.title), h.If(d.note != "", h.Small(h.Text(d.note)))),
				d.view(),
			))
		}
		return h.Div(h.Class("app"),
			h.H1(h.Text("React Hooks demos")),
			h.Div(append([]h.H{h.Class("container")}, sections...)...),
			h.Nav(
				h.A(h.Href("/testing"), h.Text("Testing component")),
				h.Text(" · "),
				h.A(h.Href("/shared"), h.Text("Shared counter")),
			),
			h.P(h.Text("For a detailed explanation of the demos and testing refer to the README")),
		)
	})
}
