package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dop251/goja"

	"github.com/yaklabco/gojshint/pkg/config"
	"github.com/yaklabco/gojshint/pkg/lint"
	"github.com/yaklabco/gojshint/pkg/textindex"
)

var _ LintEngine = (*Adapter)(nil)

// Adapter owns one goja runtime with one loaded copy of the engine script.
//
// The engine keeps per-check state on its entry function, so all calls are
// serialized through mu. Do not share an Adapter between concurrent builds of
// different projects; give every build its own instance.
type Adapter struct {
	mu sync.Mutex

	name    string
	rt      *goja.Runtime
	entry   goja.Callable
	self    *goja.Object
	options goja.Value
}

// NewAdapter returns an adapter with no engine loaded.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// New loads the given engine script (nil for the bundled one) and configures it.
func New(src io.Reader, cfg *config.Configuration) (*Adapter, error) {
	adapter := NewAdapter()
	if err := adapter.Load(src); err != nil {
		return nil, err
	}
	if err := adapter.Configure(cfg); err != nil {
		return nil, err
	}
	return adapter, nil
}

// NewFromFile is New with the engine script read from path. An empty path
// selects the bundled engine.
func NewFromFile(path string, cfg *config.Configuration) (*Adapter, error) {
	if path == "" {
		return New(nil, cfg)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &EngineLoadError{Source: path, Err: err}
	}
	defer file.Close()

	adapter := NewAdapter()
	adapter.name = path
	if err := adapter.Load(file); err != nil {
		return nil, err
	}
	if err := adapter.Configure(cfg); err != nil {
		return nil, err
	}
	return adapter, nil
}

// Name returns the loaded script name.
func (a *Adapter) Name() string {
	return a.name
}

// Load implements LintEngine.
func (a *Adapter) Load(src io.Reader) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.rt != nil {
		return ErrAlreadyLoaded
	}

	if src == nil {
		src = Bundled()
		a.name = BundledName
	} else if a.name == "" {
		a.name = "custom"
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return &EngineLoadError{Source: a.name, Err: err}
	}

	program, err := goja.Compile(a.name, string(data), false)
	if err != nil {
		return &EngineLoadError{Source: a.name, Err: err}
	}

	rt := goja.New()
	if _, err := rt.RunProgram(program); err != nil {
		return &EngineLoadError{Source: a.name, Err: err}
	}

	value := rt.Get(EntrySymbol)
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return &EngineLoadError{Source: a.name, Err: ErrMissingEntry}
	}
	entry, ok := goja.AssertFunction(value)
	if !ok {
		return &EngineLoadError{Source: a.name, Err: ErrMissingEntry}
	}

	a.rt = rt
	a.entry = entry
	a.self = value.ToObject(rt)
	a.options = rt.NewObject()

	return nil
}

// Configure implements LintEngine. The serialized document is evaluated in
// its own function scope so it cannot leak bindings into the engine globals.
func (a *Adapter) Configure(cfg *config.Configuration) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.rt == nil {
		return ErrNotLoaded
	}

	document := "{}"
	if cfg != nil {
		document = cfg.Serialize()
	}

	value, err := a.rt.RunString("(function () { return (" + document + "); })()")
	if err != nil {
		return fmt.Errorf("evaluate options %s: %w", document, err)
	}

	a.options = value
	return nil
}

// Check implements LintEngine.
//
// An exception thrown by the engine while checking source is reported to
// handler as a single diagnostic on line 0 and Check returns false with a nil
// error. Cancelling ctx interrupts a running check.
func (a *Adapter) Check(ctx context.Context, source string, handler Handler) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.rt == nil {
		return false, ErrNotLoaded
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("check cancelled: %w", err)
	}

	idx := textindex.New(source)

	result, err := a.call(ctx, source)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return false, fmt.Errorf("check interrupted: %w", context.Cause(ctx))
		}

		raw := lint.NewRawRecord()
		raw.Line = 0
		raw.Reason = EvalFailurePrefix + exceptionMessage(err)
		return false, handler(lint.Translate(raw, idx))
	}

	if result.ToBoolean() {
		return true, nil
	}

	problems := a.self.Get("errors")
	if problems == nil || goja.IsUndefined(problems) || goja.IsNull(problems) {
		return false, nil
	}

	records, _ := problems.Export().([]any)
	for _, record := range records {
		raw, ok := lint.RecordFromValue(record)
		if !ok {
			continue
		}
		if err := handler(lint.Translate(raw, idx)); err != nil {
			return false, err
		}
	}

	return false, nil
}

// call invokes the entry function, interrupting the runtime if ctx ends first.
func (a *Adapter) call(ctx context.Context, source string) (goja.Value, error) {
	interrupted := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		a.rt.Interrupt(context.Cause(ctx))
		close(interrupted)
	})

	result, err := a.entry(goja.Undefined(), a.rt.ToValue(source), a.options)

	if !stop() {
		<-interrupted
	}
	a.rt.ClearInterrupt()

	return result, err
}

// Edition returns the engine's self-reported edition string, if any.
func (a *Adapter) Edition() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.self == nil {
		return ""
	}
	value := a.self.Get("edition")
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return ""
	}
	return value.String()
}

func exceptionMessage(err error) string {
	var exception *goja.Exception
	if errors.As(err, &exception) && exception.Value() != nil {
		return exception.Value().String()
	}
	return err.Error()
}
