package via

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/ryanhamamura/viahooks/h"
	"github.com/ryanhamamura/viahooks/hooks"
	"golang.org/x/time/rate"
)

const patchBufferSize = 16

// Context is the living bridge between Go and the browser.
//
// It holds runtime state, defines actions, manages reactive signals, and defines UI through View.
type Context struct {
	id                string
	route             string
	app               *V
	view              func() h.H
	componentRegistry map[string]*Context
	parentPageCtx     *Context
	patchChan         chan patch
	actionRegistry    map[string]actionEntry
	actionLimiter     *rate.Limiter
	signals           *sync.Map
	mu                sync.RWMutex
	ctxDisposedChan   chan struct{}
	disposeOnce       sync.Once
	disposeFns        []func()
	reqCtx            context.Context
	csrfToken         string
	createdAt         time.Time
	sseConnected      atomic.Bool
	subscriptions     []Subscription
	subsMu            sync.Mutex
	effects           []*hooks.Effect
	title             string
}

// ID returns the context id. Components share the page prefix.
func (c *Context) ID() string {
	return c.id
}

// Logger returns the application logger tagged with this context's id.
func (c *Context) Logger() *zerolog.Logger {
	l := c.app.logger.With().Str("via-ctx", c.id).Logger()
	return &l
}

// View defines the UI rendered by this context.
// The function should return an h.H element (from via/h).
//
// Every render runs the effects registered with Effect and EffectOn after
// f returns. Changes to signals or state can be pushed live with Sync().
func (c *Context) View(f func() h.H) {
	if f == nil {
		panic("nil viewfn")
	}
	c.view = func() h.H {
		n := h.Div(h.ID(c.id), f())
		c.runEffects()
		return n
	}
}

// Render writes the current view of this context as HTML to w.
func (c *Context) Render(w io.Writer) error {
	if c.view == nil {
		return fmt.Errorf("ctx '%s' has no view", c.id)
	}
	return c.view().Render(w)
}

// Component registers a subcontext that has self contained data, actions and signals.
// It returns the component's view as a DOM node fn that can be placed in the view
// of the parent. Components can be added to components.
//
// Example:
//
//	v.Page("/", func(c *via.Context) {
//		counter := c.Component(demos.UseState)
//
//		c.View(func() h.H {
//			return h.Div(
//				h.H2(h.Text("useState demo:")),
//				counter(),
//			)
//		})
//	})
func (c *Context) Component(initCtx func(c *Context)) func() h.H {
	id := c.id + "/_component/" + genRandID()
	compCtx := newContext(id, c.route, c.app)
	if c.isComponent() {
		compCtx.parentPageCtx = c.parentPageCtx
	} else {
		compCtx.parentPageCtx = c
	}
	initCtx(compCtx)
	c.componentRegistry[id] = compCtx
	return compCtx.view
}

func (c *Context) isComponent() bool {
	return c.parentPageCtx != nil
}

func (c *Context) pageCtx() *Context {
	if c.isComponent() {
		return c.parentPageCtx
	}
	return c
}

// Action registers an event handler and returns a trigger to that event that
// that can be added to the view fn as any other via.h element.
//
// Example:
//
//	n := 0
//	increment := c.Action(func(){
//		 n++
//		 c.Sync()
//	})
//
//	c.View(func() h.H {
//		 return h.Div(
//		 	 	h.P(h.Textf("Value of n: %d", n)),
//		 	 	h.Button(h.Text("Increment n"), increment.OnClick()),
//		 )
//	})
func (c *Context) Action(f func(), options ...ActionOption) *actionTrigger {
	id := genRandID()
	if f == nil {
		c.app.logErr(c, "failed to bind action '%s' to context: nil func", id)
		return nil
	}
	entry := actionEntry{fn: f}
	for _, opt := range options {
		opt(&entry)
	}

	page := c.pageCtx()
	page.mu.Lock()
	page.actionRegistry[id] = entry
	page.mu.Unlock()
	return &actionTrigger{id}
}

func (c *Context) getAction(id string) (actionEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.actionRegistry[id]; ok {
		return e, nil
	}
	return actionEntry{}, fmt.Errorf("action '%s' not found", id)
}

// Signal creates a reactive signal and initializes it with the given value.
// Use Bind() to link the value of an input element to the signal; the bound
// value arrives with the next action.
//
// Example:
//
//	amount := c.Signal("")
//
//	c.View(func() h.H {
//		return h.Input(h.Type("number"), amount.Bind(), incrementBy.OnInput())
//	})
//
// Signals are 'alive' only in the browser, but Via always injects their values into
// the Context before each action call.
// If any signal value is updated by the server, the update is automatically sent to the
// browser when using Sync() or SyncSignals().
func (c *Context) Signal(v any) *signal {
	sigID := genRandID()
	if v == nil {
		c.app.logErr(c, "failed to bind signal: nil signal value")
		return &signal{
			id:  sigID,
			val: "error",
			err: fmt.Errorf("context '%s' failed to bind signal '%s': nil signal value", c.id, sigID),
		}
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Struct:
		if j, err := json.Marshal(v); err == nil {
			v = string(j)
		}
	}
	sig := &signal{
		id:      sigID,
		val:     v,
		changed: true,
	}

	// components register signals on parent page
	c.pageCtx().signals.Store(sigID, sig)
	return sig
}

func (c *Context) injectSignals(sigs map[string]any) {
	if sigs == nil {
		c.app.logErr(c, "signal injection failed: nil signals")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for sigID, val := range sigs {
		item, ok := c.signals.Load(sigID)
		if !ok {
			c.signals.Store(sigID, &signal{
				id:  sigID,
				val: val,
			})
			continue
		}
		if sig, ok := item.(*signal); ok {
			sig.val = val
			sig.changed = false
		}
	}
}

func (c *Context) prepareSignalsForPatch() map[string]any {
	page := c.pageCtx()
	page.mu.RLock()
	defer page.mu.RUnlock()
	updatedSigs := make(map[string]any)
	page.signals.Range(func(sigID, value any) bool {
		if sig, ok := value.(*signal); ok {
			if sig.err != nil {
				c.app.logWarn(c, "signal '%s' is out of sync: %v", sig.id, sig.err)
				return true
			}
			if sig.changed {
				updatedSigs[sigID.(string)] = fmt.Sprintf("%v", sig.val)
			}
		}
		return true
	})
	return updatedSigs
}

// sendPatch queues a patch on the page sse stream. If the sse is closed or queue is full, the patch
// is dropped to prevent runtime blocks.
func (c *Context) sendPatch(p patch) {
	select {
	case c.pageCtx().patchChan <- p:
	default: // closed or buffer full - drop patch without blocking
		c.app.logDebug(c, "patch dropped: queue full")
	}
}

// Sync pushes the current view state and signal changes to the browser immediately
// over the live SSE event stream.
func (c *Context) Sync() {
	elemsPatch := bytes.NewBuffer(make([]byte, 0))
	if err := c.Render(elemsPatch); err != nil {
		c.app.logErr(c, "sync view failed: %v", err)
		return
	}
	c.sendPatch(patch{patchTypeElements, elemsPatch.String()})
	c.SyncSignals()
}

// SyncElements pushes an immediate html patch over the live SSE stream to the
// browser that merges with the DOM.
//
// For the merge to occur, each top lever element in the patch needs to have
// an ID that matches the ID of an element that already sits in the view.
func (c *Context) SyncElements(elem ...h.H) {
	b := bytes.NewBuffer(nil)
	for idx, el := range elem {
		if el == nil {
			c.app.logWarn(c, "sync elements failed: element at idx=%d is nil", idx)
			continue
		}
		if err := el.Render(b); err != nil {
			c.app.logWarn(c, "sync elements failed: element at idx=%d has invalid html", idx)
			continue
		}
	}
	c.sendPatch(patch{patchTypeElements, b.String()})
}

// SyncSignals pushes the current signal changes to the browser immediately
// over the live SSE event stream.
func (c *Context) SyncSignals() {
	updatedSigs := c.prepareSignalsForPatch()
	if len(updatedSigs) != 0 {
		outgoingSignals, _ := json.Marshal(updatedSigs)
		c.sendPatch(patch{patchTypeSignals, string(outgoingSignals)})
	}
}

// ExecScript runs s in the browser once over the SSE stream.
func (c *Context) ExecScript(s string) {
	if s == "" {
		c.app.logWarn(c, "exec script failed: empty script")
		return
	}
	c.sendPatch(patch{patchTypeScript, s})
}

// OnDispose registers fn to run once when the page this context belongs to
// is closed, reaped or drained. Use it to release store subscriptions.
func (c *Context) OnDispose(fn func()) {
	if fn == nil {
		return
	}
	page := c.pageCtx()
	page.mu.Lock()
	defer page.mu.Unlock()
	page.disposeFns = append(page.disposeFns, fn)
}

// dispose releases subscriptions and dispose funcs and stops the sse loop.
func (c *Context) dispose() {
	c.disposeOnce.Do(func() {
		c.unsubscribeAll()
		c.mu.Lock()
		fns := c.disposeFns
		c.disposeFns = nil
		c.mu.Unlock()
		for _, fn := range fns {
			fn()
		}
		close(c.ctxDisposedChan)
	})
}

// Session returns the session for this context.
// Session data persists across page views for the same browser.
func (c *Context) Session() *Session {
	return &Session{
		ctx:     c.pageCtx().reqCtx,
		manager: c.app.sessionManager,
	}
}

var errNoPubSub = errors.New("pubsub not configured")

// Publish sends data to subject on the configured PubSub.
func (c *Context) Publish(subject string, data []byte) error {
	if c.id == "" {
		return nil
	}
	if c.app.pubsub == nil {
		return errNoPubSub
	}
	return c.app.pubsub.Publish(subject, data)
}

// Subscribe registers handler for messages on subject. The subscription is
// released when the page is disposed.
func (c *Context) Subscribe(subject string, handler func(data []byte)) (Subscription, error) {
	if c.id == "" {
		return nil, nil
	}
	if c.app.pubsub == nil {
		return nil, errNoPubSub
	}
	sub, err := c.app.pubsub.Subscribe(subject, handler)
	if err != nil {
		return nil, err
	}
	page := c.pageCtx()
	page.subsMu.Lock()
	page.subscriptions = append(page.subscriptions, sub)
	page.subsMu.Unlock()
	return sub, nil
}

func (c *Context) unsubscribeAll() {
	c.subsMu.Lock()
	subs := c.subscriptions
	c.subscriptions = nil
	c.subsMu.Unlock()
	for _, sub := range subs {
		if err := sub.Unsubscribe(); err != nil {
			c.app.logWarn(c, "unsubscribe failed: %v", err)
		}
	}
}

func newContext(id string, route string, v *V) *Context {
	if v == nil {
		log.Fatal("create context failed: app pointer is nil")
	}

	return &Context{
		id:                id,
		route:             route,
		app:               v,
		componentRegistry: make(map[string]*Context),
		actionRegistry:    make(map[string]actionEntry),
		actionLimiter:     v.actionRateLimit.limiter(),
		signals:           new(sync.Map),
		patchChan:         make(chan patch, patchBufferSize),
		ctxDisposedChan:   make(chan struct{}),
		csrfToken:         genCSRFToken(),
		createdAt:         time.Now(),
	}
}
