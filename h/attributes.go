package h

import gh "maragu.dev/gomponents/html"

// Attribute constructors. Values are escaped on render.

// ID sets the id attribute. Datastar merges element patches by id.
func ID(v string) H { return gh.ID(v) }

// Class sets the class attribute.
func Class(v string) H { return gh.Class(v) }

// Type sets the type attribute of inputs, buttons and scripts.
func Type(v string) H { return gh.Type(v) }

// For links a label to the input with id v.
func For(v string) H { return gh.For(v) }

// Href sets the target of a link.
func Href(v string) H { return gh.Href(v) }

// Rel sets the link relation, e.g. "stylesheet".
func Rel(v string) H { return gh.Rel(v) }

// Src sets the source URL of a script or image.
func Src(v string) H { return gh.Src(v) }

// Data creates a data-* attribute, e.g. Data("on:click", "...") renders data-on:click="...".
func Data(name, v string) H { return gh.Data(name, v) }

// TestID marks an element for lookup in tests with data-testid.
func TestID(v string) H { return gh.Data("testid", v) }
