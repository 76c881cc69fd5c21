package h

import gh "maragu.dev/gomponents/html"

// Element constructors. Each takes its attributes and children in one list,
// in the order they should render; nil entries are skipped.

// Div renders a <div>.
func Div(children ...H) H { return gh.Div(retype(children)...) }

// P renders a paragraph.
func P(children ...H) H { return gh.P(retype(children)...) }

// Span renders an inline <span>.
func Span(children ...H) H { return gh.Span(retype(children)...) }

// Small renders side-comment text.
func Small(children ...H) H { return gh.Small(retype(children)...) }

// H1 renders a top level heading.
func H1(children ...H) H { return gh.H1(retype(children)...) }

// H2 renders a section heading.
func H2(children ...H) H { return gh.H2(retype(children)...) }

// Button renders a <button>. Add Type("button") inside forms.
func Button(children ...H) H { return gh.Button(retype(children)...) }

// Label renders a <label>; pair it with an input through For.
func Label(children ...H) H { return gh.Label(retype(children)...) }

// Input renders a void <input>. Children must be attributes.
func Input(children ...H) H { return gh.Input(retype(children)...) }

// A renders a link.
func A(children ...H) H { return gh.A(retype(children)...) }

// Script renders a <script>.
func Script(children ...H) H { return gh.Script(retype(children)...) }

// Link renders a void <link>, e.g. a stylesheet.
func Link(children ...H) H { return gh.Link(retype(children)...) }

// Meta renders a void <meta>.
func Meta(children ...H) H { return gh.Meta(retype(children)...) }

// Nav renders a navigation block.
func Nav(children ...H) H { return gh.Nav(retype(children)...) }
