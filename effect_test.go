package via

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/ryanhamamura/viahooks/h"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainPatches(c *Context) []patch {
	var out []patch
	for {
		select {
		case p := <-c.patchChan:
			out = append(out, p)
		default:
			return out
		}
	}
}

func TestEffect_TitleWrittenIntoDocument(t *testing.T) {
	v := newTestApp()
	v.Page("/", func(c *Context) {
		n := 4
		c.Effect(func() { c.SetTitle(fmt.Sprintf("%d is the current value", n)) })
		c.View(func() h.H { return h.Div(h.Textf("%d", n)) })
	})

	w := httptest.NewRecorder()
	v.mux.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Contains(t, w.Body.String(), "<title>4 is the current value</title>")

	c := onlyCtx(t, v)
	assert.Empty(t, drainPatches(c), "no script is queued before the SSE stream connects")
}

func TestEffect_RunsAfterEverySync(t *testing.T) {
	v := newTestApp()
	c := newContext("page", "/", v)
	n := 0
	runs := 0
	c.Effect(func() { runs++ })
	c.View(func() h.H { return h.Textf("%d", n) })

	require.NoError(t, c.Render(&discard{}))
	n++
	c.Sync()
	n++
	c.Sync()

	assert.Equal(t, 3, runs)
}

func TestEffectOn_SkipsUnchangedDeps(t *testing.T) {
	v := newTestApp()
	c := newContext("page", "/", v)
	n := 0
	runs := 0
	c.EffectOn(func() { runs++ }, func() []any { return []any{n} })
	c.View(func() h.H { return h.Textf("%d", n) })

	c.Sync()
	c.Sync()
	n = 5
	c.Sync()

	assert.Equal(t, 2, runs)
}

func TestSetTitle_SendsScriptWhenConnected(t *testing.T) {
	v := newTestApp()
	c := newContext("page", "/", v)
	c.sseConnected.Store(true)

	c.SetTitle(`1 is the "current" value`)

	patches := drainPatches(c)
	require.Len(t, patches, 1)
	assert.Equal(t, patch{patchTypeScript, `document.title = "1 is the \"current\" value"`}, patches[0])
	assert.Equal(t, `1 is the "current" value`, c.Title())
}

func TestSetTitle_ComponentWritesPageTitle(t *testing.T) {
	v := newTestApp()
	page := newContext("page", "/", v)
	page.Component(func(c *Context) {
		c.Effect(func() { c.SetTitle("from component") })
		c.View(func() h.H { return h.Div() })
	})
	page.View(func() h.H { return h.Div() })

	for _, comp := range page.componentRegistry {
		comp.Sync()
	}
	assert.Equal(t, "from component", page.Title())
}

func TestSync_QueuesElementsPatch(t *testing.T) {
	v := newTestApp()
	c := newContext("page", "/", v)
	c.View(func() h.H { return h.P(h.Text("hi")) })

	c.Sync()

	patches := drainPatches(c)
	require.Len(t, patches, 1)
	assert.Equal(t, patchType(patchTypeElements), patches[0].typ)
	assert.Equal(t, `<div id="page"><p>hi</p></div>`, patches[0].content)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestSyncElements_QueuesOnlyGivenElements(t *testing.T) {
	c := newContext("page", "/", newTestApp())
	c.View(func() h.H { return h.P(h.Text("whole view")) })

	c.SyncElements(h.Span(h.ID("count"), h.Text("3")), nil)

	patches := drainPatches(c)
	require.Len(t, patches, 1)
	assert.Equal(t, patch{patchTypeElements, `<span id="count">3</span>`}, patches[0])
}
