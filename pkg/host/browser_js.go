//go:build js && wasm

package host

import (
	"fmt"
	"sync"
	"syscall/js"
)

// Browser is the Environment of a page: a graphical console, localStorage,
// document.cookie and the window object.
type Browser struct {
	window js.Value
	scope  *windowScope
}

// NewBrowser binds to the global window.
func NewBrowser() *Browser {
	w := js.Global()
	return &Browser{window: w, scope: &windowScope{window: w, bound: make(map[string]binding)}}
}

var (
	current     Environment
	currentOnce sync.Once
)

// Current returns the page host.
func Current() Environment {
	currentOnce.Do(func() {
		current = NewBrowser()
	})
	return current
}

// IsGraphical implements Environment.
func (b *Browser) IsGraphical() bool {
	return truthy(b.window.Get("document"))
}

// IsTerminal implements Environment.
func (b *Browser) IsTerminal() bool { return false }

// SupportsColor implements Environment. Browser consoles render CSS styles.
func (b *Browser) SupportsColor() bool { return b.IsGraphical() }

// Console implements Environment.
func (b *Browser) Console() Console {
	c := b.window.Get("console")
	if !truthy(c) {
		return nil
	}
	return jsConsole{c}
}

// KeyValue implements Environment.
func (b *Browser) KeyValue() (store KeyValueStore) {
	defer func() {
		if recover() != nil {
			store = nil
		}
	}()
	ls := b.window.Get("localStorage")
	if !truthy(ls) {
		return nil
	}
	return localStorage{ls}
}

// Cookies implements Environment.
func (b *Browser) Cookies() CookieJar {
	doc := b.window.Get("document")
	if !truthy(doc) {
		return nil
	}
	return documentCookies{doc}
}

// Globals implements Environment.
func (b *Browser) Globals() GlobalScope { return b.scope }

func truthy(v js.Value) bool {
	return !v.IsUndefined() && !v.IsNull()
}

type jsConsole struct {
	v js.Value
}

func (c jsConsole) Method(name string) PrintFunc {
	fn := c.v.Get(name)
	if fn.Type() != js.TypeFunction {
		return nil
	}
	return func(args ...any) {
		converted := make([]any, len(args))
		for i, a := range args {
			converted[i] = toJS(a)
		}
		c.v.Call(name, converted...)
	}
}

func toJS(a any) any {
	switch v := a.(type) {
	case nil, js.Value, js.Func, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%+v", v)
	}
}

type localStorage struct {
	v js.Value
}

func (s localStorage) Get(key string) (value string, ok bool, err error) {
	defer recoverJS(&err)
	r := s.v.Call("getItem", key)
	if r.IsNull() {
		return "", false, nil
	}
	return r.String(), true, nil
}

func (s localStorage) Set(key, value string) (err error) {
	defer recoverJS(&err)
	s.v.Call("setItem", key, value)
	return nil
}

func (s localStorage) Remove(key string) (err error) {
	defer recoverJS(&err)
	s.v.Call("removeItem", key)
	return nil
}

// recoverJS turns a thrown JS exception (quota, security) into an error.
func recoverJS(err *error) {
	if r := recover(); r != nil {
		if jsErr, ok := r.(js.Error); ok {
			*err = fmt.Errorf("localStorage: %s", jsErr.Error())
			return
		}
		*err = fmt.Errorf("localStorage: %v", r)
	}
}

type documentCookies struct {
	doc js.Value
}

func (d documentCookies) Cookie() (s string) {
	defer func() {
		if recover() != nil {
			s = ""
		}
	}()
	return d.doc.Get("cookie").String()
}

func (d documentCookies) SetCookie(raw string) {
	defer func() { _ = recover() }()
	d.doc.Set("cookie", raw)
}

// binding remembers the Go value behind a window property so Get can hand
// the same value back while the property is untouched.
type binding struct {
	value any
	js    js.Value
}

type windowScope struct {
	mu     sync.Mutex
	window js.Value
	bound  map[string]binding
}

// JSValuer is implemented by Go values with a JS representation.
type JSValuer interface {
	JSValue() js.Value
}

func (w *windowScope) Get(name string) (any, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := w.window.Get(name)
	if v.IsUndefined() {
		return nil, false
	}
	if b, ok := w.bound[name]; ok && b.js.Equal(v) {
		return b.value, true
	}
	return v, true
}

func (w *windowScope) Set(name string, value any) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var jv js.Value
	switch v := value.(type) {
	case js.Value:
		jv = v
	case JSValuer:
		jv = v.JSValue()
	default:
		jv = js.ValueOf(toJS(value))
	}
	w.window.Set(name, jv)
	w.bound[name] = binding{value: value, js: jv}
}

func (w *windowScope) Delete(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.window.Delete(name)
	delete(w.bound, name)
}
