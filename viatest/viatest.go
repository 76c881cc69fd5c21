// Package viatest renders via pages in tests and drives them like a user:
// query elements by attribute, click buttons, change inputs and read the
// re-rendered view and document title.
//
// Example:
//
//	s := viatest.Render(t, demos.TestingComponent)
//	counter := s.GetByID("counter")
//	s.Click(s.GetByID("increment"))
//	assert.Equal(t, "1", counter.TextContent())
package viatest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"

	via "github.com/ryanhamamura/viahooks"
	"golang.org/x/net/html"
)

var (
	actionRe = regexp.MustCompile(`/_action/([A-Za-z0-9]+)`)
	assignRe = regexp.MustCompile(`\$([A-Za-z0-9_-]+)=(?:'([^']*)'|(-?\d+));`)
)

// Screen is a rendered page.
type Screen struct {
	t       testing.TB
	app     *via.V
	handler http.Handler
	page    *via.Context
	cookies map[string]*http.Cookie
	signals map[string]any
	doc     *html.Node
	title   string
	status  int
}

// Render mounts init as the page at "/" of a fresh app and loads it.
// Options are applied after the test defaults: errors-only logging, no
// context reaping and no action rate limiting.
func Render(t testing.TB, init func(c *via.Context), opts ...via.Options) *Screen {
	t.Helper()
	app := via.New()
	app.Config(via.Options{
		LogLevel:        via.LogLevelError,
		ContextTTL:      -1,
		ActionRateLimit: via.NoRateLimit,
	})
	for _, o := range opts {
		app.Config(o)
	}

	var mu sync.Mutex
	var mounted *via.Context
	app.Page("/", func(c *via.Context) {
		mu.Lock()
		mounted = c
		mu.Unlock()
		init(c)
	})

	s := &Screen{
		t:       t,
		app:     app,
		handler: app.Handler(),
		cookies: make(map[string]*http.Cookie),
		signals: make(map[string]any),
	}
	w := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("viatest: GET / returned %d", w.Code)
	}
	s.load(w.Body.String())

	mu.Lock()
	s.page = mounted
	mu.Unlock()
	if s.page == nil || s.page.ID() == "" {
		t.Fatal("viatest: page context was not mounted")
	}
	t.Cleanup(app.Shutdown)
	return s
}

// App returns the application under test.
func (s *Screen) App() *via.V {
	return s.app
}

// Page returns the mounted page context.
func (s *Screen) Page() *via.Context {
	return s.page
}

// Status returns the HTTP status of the last request.
func (s *Screen) Status() int {
	return s.status
}

// Title returns the document title: the last title set by the page, or the
// <title> of the initial document.
func (s *Screen) Title() string {
	if t := s.page.Title(); t != "" {
		return t
	}
	return s.title
}

// HTML returns the current view markup.
func (s *Screen) HTML() string {
	var b bytes.Buffer
	if err := html.Render(&b, s.doc); err != nil {
		s.t.Fatalf("viatest: render document: %v", err)
	}
	return b.String()
}

// QueryByAttribute returns the first element whose attr equals value, or nil.
func (s *Screen) QueryByAttribute(attr, value string) *Element {
	if findNode(s.doc, attr, value) == nil {
		return nil
	}
	return &Element{s: s, attr: attr, value: value}
}

// GetByID returns the element with the given id and fails the test if none exists.
func (s *Screen) GetByID(id string) *Element {
	return s.getBy("id", id)
}

// GetByTestID returns the element with the given data-testid and fails the test if none exists.
func (s *Screen) GetByTestID(id string) *Element {
	return s.getBy("data-testid", id)
}

func (s *Screen) getBy(attr, value string) *Element {
	s.t.Helper()
	el := s.QueryByAttribute(attr, value)
	if el == nil {
		s.t.Fatalf("viatest: no element with %s=%q in\n%s", attr, value, s.HTML())
	}
	return el
}

// Click fires the click action bound to el.
func (s *Screen) Click(el *Element) {
	s.t.Helper()
	s.fire(el, "data-on:click")
}

// Change sets the signal bound to el to value and fires its change or input action.
func (s *Screen) Change(el *Element, value string) {
	s.t.Helper()
	n := el.node()
	if sigID := attr(n, "data-bind"); sigID != "" {
		s.signals[sigID] = value
	}
	for _, prefix := range []string{"data-on:change", "data-on:input"} {
		if key := attrKeyWithPrefix(n, prefix); key != "" {
			s.fire(el, key)
			return
		}
	}
	s.t.Fatalf("viatest: element %s=%q has no change handler", el.attr, el.value)
}

// Close sends the page close beacon, as the browser does on unload, which
// disposes the page context.
func (s *Screen) Close() {
	s.t.Helper()
	s.do(httptest.NewRequest(http.MethodPost, "/_session/close", strings.NewReader(s.page.ID())))
}

func (s *Screen) fire(el *Element, key string) {
	s.t.Helper()
	expr := attr(el.node(), key)
	m := actionRe.FindStringSubmatch(expr)
	if m == nil {
		s.t.Fatalf("viatest: element %s=%q has no %s action", el.attr, el.value, key)
	}
	for _, a := range assignRe.FindAllStringSubmatch(expr, -1) {
		if a[3] != "" {
			s.signals[a[1]] = a[3]
		} else {
			s.signals[a[1]] = a[2]
		}
	}

	payload, err := json.Marshal(s.signals)
	if err != nil {
		s.t.Fatalf("viatest: encode signals: %v", err)
	}
	target := "/_action/" + m[1] + "?datastar=" + url.QueryEscape(string(payload))
	w := s.do(httptest.NewRequest(http.MethodGet, target, nil))
	if w.Code != http.StatusOK {
		s.t.Logf("viatest: action %s returned %d: %s", m[1], w.Code, w.Body.String())
	}
	s.Refresh()
}

// Refresh re-renders the page view the way a Sync would. Fired events
// refresh on their own; call it to observe writes made by other pages.
func (s *Screen) Refresh() {
	var b bytes.Buffer
	if err := s.page.Render(&b); err != nil {
		s.t.Fatalf("viatest: render page: %v", err)
	}
	doc, err := html.Parse(&b)
	if err != nil {
		s.t.Fatalf("viatest: parse view: %v", err)
	}
	s.doc = doc
}

func (s *Screen) load(body string) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		s.t.Fatalf("viatest: parse page: %v", err)
	}
	s.doc = doc
	if t := findElement(doc, "title"); t != nil {
		s.title = textContent(t)
	}
	meta := findAttrKey(doc, "data-signals")
	if meta == nil {
		s.t.Fatal("viatest: page has no data-signals meta")
	}
	raw := strings.ReplaceAll(attr(meta, "data-signals"), "'", `"`)
	if err := json.Unmarshal([]byte(raw), &s.signals); err != nil {
		s.t.Fatalf("viatest: decode page signals: %v", err)
	}
}

func (s *Screen) do(r *http.Request) *httptest.ResponseRecorder {
	for _, c := range s.cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, r)
	for _, c := range w.Result().Cookies() {
		s.cookies[c.Name] = c
	}
	s.status = w.Code
	return w
}

// Element is a live reference to an element. It resolves against the
// latest render every time it is read.
type Element struct {
	s     *Screen
	attr  string
	value string
}

func (e *Element) node() *html.Node {
	e.s.t.Helper()
	n := findNode(e.s.doc, e.attr, e.value)
	if n == nil {
		e.s.t.Fatalf("viatest: element %s=%q is no longer rendered", e.attr, e.value)
	}
	return n
}

// TextContent returns the concatenated text of the element and its descendants.
func (e *Element) TextContent() string {
	return textContent(e.node())
}

// Attr returns the value of the named attribute or an empty string.
func (e *Element) Attr(name string) string {
	return attr(e.node(), name)
}

func findNode(n *html.Node, key, value string) *html.Node {
	if n.Type == html.ElementNode && attr(n, key) == value {
		for _, a := range n.Attr {
			if a.Key == key {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, key, value); found != nil {
			return found
		}
	}
	return nil
}

func findAttrKey(n *html.Node, key string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == key {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findAttrKey(c, key); found != nil {
			return found
		}
	}
	return nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func attrKeyWithPrefix(n *html.Node, prefix string) string {
	for _, a := range n.Attr {
		if strings.HasPrefix(a.Key, prefix) {
			return a.Key
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
