package via

import (
	"encoding/json"
	"fmt"

	"github.com/ryanhamamura/viahooks/hooks"
)

// Effect registers fn to run after every render of this context's view:
// once for the initial page render and again on every Sync.
//
// Example:
//
//	count := hooks.NewState(0)
//	c.Effect(func() {
//		c.SetTitle(fmt.Sprintf("%d is the current value", count.Get()))
//	})
func (c *Context) Effect(fn func()) *hooks.Effect {
	e := hooks.NewEffect(fn)
	c.addEffect(e)
	return e
}

// EffectOn is like Effect but skips renders where the values returned by
// deps are equal to those of the previous run.
func (c *Context) EffectOn(fn func(), deps func() []any) *hooks.Effect {
	e := hooks.NewEffectOn(fn, deps)
	c.addEffect(e)
	return e
}

func (c *Context) addEffect(e *hooks.Effect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.effects = append(c.effects, e)
}

func (c *Context) runEffects() {
	c.mu.RLock()
	effects := make([]*hooks.Effect, len(c.effects))
	copy(effects, c.effects)
	c.mu.RUnlock()
	for _, e := range effects {
		e.Run()
	}
}

// SetTitle sets the document title of the page. During the first render the
// title is written into the HTML document; once the SSE stream is live the
// change is pushed to the browser as a script.
func (c *Context) SetTitle(title string) {
	page := c.pageCtx()
	page.mu.Lock()
	page.title = title
	page.mu.Unlock()

	if !page.sseConnected.Load() {
		return
	}
	quoted, err := json.Marshal(title)
	if err != nil {
		c.app.logErr(c, "set title failed: %v", err)
		return
	}
	c.ExecScript(fmt.Sprintf("document.title = %s", quoted))
}

// Title returns the last title set with SetTitle, or an empty string.
func (c *Context) Title() string {
	page := c.pageCtx()
	page.mu.RLock()
	defer page.mu.RUnlock()
	return page.title
}
