// Package emulator executes JavaScript in a goja runtime with a minimal host:
// console output is recorded and setTimeout callbacks run on a virtual clock
// once the script itself has finished.
package emulator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
)

// DefaultTimeout bounds a single Run.
const DefaultTimeout = 5 * time.Second

// ErrTimeout is returned when a script is interrupted for running too long.
var ErrTimeout = errors.New("emulator: script timed out")

type timer struct {
	id   int64
	when int64
	fn   goja.Callable
	args []goja.Value
}

// Emulator executes JS code
type Emulator struct {
	Runtime *goja.Runtime
	Output  []string
	Timeout time.Duration

	timers []*timer
	now    int64
	nextID int64
}

// NewEmulator creates a new Emulator
func NewEmulator() *Emulator {
	e := &Emulator{
		Runtime: goja.New(),
		Timeout: DefaultTimeout,
	}
	e.setupHost()
	return e
}

// setupHost installs the globals scripts expect from a browser-like host.
func (e *Emulator) setupHost() {
	vm := e.Runtime

	vm.Set("window", vm.GlobalObject())
	vm.Set("globalThis", vm.GlobalObject())

	console := vm.NewObject()
	for _, method := range []string{"log", "info", "warn", "error", "debug"} {
		console.Set(method, e.record)
	}
	vm.Set("console", console)

	vm.Set("setTimeout", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			// String callbacks would need eval; nothing here relies on them.
			return goja.Undefined()
		}
		delay := call.Argument(1).ToInteger()
		if delay < 0 {
			delay = 0
		}
		var args []goja.Value
		if len(call.Arguments) > 2 {
			args = append(args, call.Arguments[2:]...)
		}
		e.nextID++
		e.timers = append(e.timers, &timer{id: e.nextID, when: e.now + delay, fn: fn, args: args})
		return vm.ToValue(e.nextID)
	})
	vm.Set("clearTimeout", func(call goja.FunctionCall) goja.Value {
		id := call.Argument(0).ToInteger()
		for i, t := range e.timers {
			if t.id == id {
				e.timers = append(e.timers[:i], e.timers[i+1:]...)
				break
			}
		}
		return goja.Undefined()
	})
}

func (e *Emulator) record(call goja.FunctionCall) goja.Value {
	parts := make([]string, len(call.Arguments))
	for i, arg := range call.Arguments {
		parts[i] = arg.String()
	}
	e.Output = append(e.Output, strings.Join(parts, " "))
	return goja.Undefined()
}

// Run executes the given code, then drains pending timers in due order.
func (e *Emulator) Run(code string) error {
	if e.Timeout > 0 {
		t := time.AfterFunc(e.Timeout, func() {
			e.Runtime.Interrupt(ErrTimeout)
		})
		defer func() {
			t.Stop()
			e.Runtime.ClearInterrupt()
		}()
	}

	if _, err := e.Runtime.RunString(code); err != nil {
		return wrapError(err)
	}
	for len(e.timers) > 0 {
		next := 0
		for i, t := range e.timers {
			if t.when < e.timers[next].when {
				next = i
			}
		}
		t := e.timers[next]
		e.timers = append(e.timers[:next], e.timers[next+1:]...)
		e.now = t.when
		if _, err := t.fn(goja.Undefined(), t.args...); err != nil {
			return wrapError(err)
		}
	}
	return nil
}

func wrapError(err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return ErrTimeout
	}
	return fmt.Errorf("emulator: %w", err)
}

// Capture runs code in a fresh emulator and returns what it logged.
func Capture(code string) ([]string, error) {
	e := NewEmulator()
	err := e.Run(code)
	return e.Output, err
}
