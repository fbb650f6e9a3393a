//go:build js && wasm

package loglevel

import (
	"sync"
	"syscall/js"
)

// jsObjects caches the page object of each registry.
var jsObjects sync.Map

// JSValue exposes the registry to page scripts with the familiar method
// names. It is what BindGlobal publishes as window.log.
func (r *Root) JSValue() js.Value {
	if v, ok := jsObjects.Load(r); ok {
		return v.(js.Value)
	}

	obj := loggerObject(r.Logger)
	obj.Set("getLogger", js.FuncOf(func(_ js.Value, args []js.Value) any {
		name := ""
		if len(args) > 0 && args[0].Type() == js.TypeString {
			name = args[0].String()
		}
		l, err := r.GetLogger(name)
		if err != nil {
			panic(js.Global().Get("Error").New(err.Error()))
		}
		return loggerObject(l)
	}))
	obj.Set("setLevel", js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			r.SetLevel(jsDescriptor(args[0]), len(args) > 1 && args[1].Truthy())
		}
		return nil
	}))
	obj.Set("noConflict", js.FuncOf(func(js.Value, []js.Value) any {
		r.NoConflict()
		return r.JSValue()
	}))

	actual, _ := jsObjects.LoadOrStore(r, obj)
	return actual.(js.Value)
}

func loggerObject(l *Logger) js.Value {
	obj := js.Global().Get("Object").New()
	methods := map[string]func(...any) *Logger{
		"trace": l.Trace,
		"debug": l.Debug,
		"info":  l.Info,
		"warn":  l.Warn,
		"error": l.Error,
		"log":   l.Log,
	}
	for name, fn := range methods {
		obj.Set(name, js.FuncOf(func(this js.Value, args []js.Value) any {
			converted := make([]any, len(args))
			for i, a := range args {
				converted[i] = a
			}
			fn(converted...)
			return this
		}))
	}
	obj.Set("getLevel", js.FuncOf(func(js.Value, []js.Value) any {
		return int(l.Level())
	}))
	obj.Set("setLevel", js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			l.SetLevel(jsDescriptor(args[0]), len(args) > 1 && args[1].Truthy())
		}
		return nil
	}))
	obj.Set("resetLevel", js.FuncOf(func(js.Value, []js.Value) any {
		l.ResetLevel()
		return nil
	}))
	return obj
}

// jsDescriptor maps a script value to a level descriptor; anything but a
// number or a string is passed on as its string form and rejected.
func jsDescriptor(v js.Value) any {
	if v.Type() == js.TypeNumber {
		return v.Float()
	}
	return v.String()
}
