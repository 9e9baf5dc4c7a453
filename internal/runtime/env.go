// Package runtime bundles the process-wide state the interpreter, thread
// manager, and native shim all share: the class registry, static-field
// tables, schema table and monitor table, instead of scattered module-level
// globals. Env's reader-writer lock guards class loading and the static
// tables; the schema registry and the monitor table each have their own
// lock, and the thread registry (package thread) has its own as well.
package runtime

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mabhi256/jvmgo/internal/classfile"
	"github.com/mabhi256/jvmgo/internal/classpath"
	"github.com/mabhi256/jvmgo/internal/descriptor"
	"github.com/mabhi256/jvmgo/internal/object"
)

// Env is the explicit runtime environment every component threads through
// rather than reaching into package-level state, so tests can instantiate
// isolated VMs side by side.
type Env struct {
	mu sync.RWMutex

	Loader  *classpath.Loader
	Schemas *object.Registry
	Statics map[string]map[string]object.Value // className -> field name -> value

	monitorsMu sync.Mutex
	monitors   map[*object.Handle]*Monitor

	Log *logrus.Logger
	Out io.Writer // java.io.PrintStream's backing writer (System.out)
}

// New builds an environment over an already-preloaded loader.
func New(loader *classpath.Loader, log *logrus.Logger) *Env {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Env{
		Loader:   loader,
		Schemas:  object.NewRegistry(),
		Statics:  make(map[string]map[string]object.Value),
		monitors: make(map[*object.Handle]*Monitor),
		Log:      log,
		Out:      os.Stdout,
	}
}

// RLock/RUnlock/Lock/Unlock expose the shared guard directly. Class and
// StaticFields take the write side on every call, lookups of an
// already-loaded class included; nothing in this module takes the read side.
func (e *Env) RLock()   { e.mu.RLock() }
func (e *Env) RUnlock() { e.mu.RUnlock() }
func (e *Env) Lock()    { e.mu.Lock() }
func (e *Env) Unlock()  { e.mu.Unlock() }

// Class resolves name to its parsed class file, loading it (and its
// superclass chain) on first reference.
func (e *Env) Class(name string) (*classfile.Class, error) {
	e.Lock()
	defer e.Unlock()
	if _, err := e.Loader.AttemptLoad(name); err != nil {
		return nil, err
	}
	return e.Loader.Registry[name], nil
}

// InstanceSchema returns className's instance layout schema, building it
// (and its superclass's, recursively) from the loaded class file's declared
// non-static fields on first reference, and registering static fields'
// zero-initialized defaults in the process, inherited fields first.
func (e *Env) InstanceSchema(className string) (*object.ClassSchema, error) {
	if s, ok := e.Schemas.Instance(className); ok {
		return s, nil
	}

	cls, err := e.Class(className)
	if err != nil {
		return nil, err
	}

	var super *object.ClassSchema
	superName, err := cls.SuperName()
	if err != nil {
		return nil, fmt.Errorf("runtime: resolving superclass of %s: %w", className, err)
	}
	if superName != "" {
		super, err = e.InstanceSchema(superName)
		if err != nil {
			return nil, err
		}
	}

	var declared []object.FieldDecl
	statics := e.StaticFields(className)
	for _, f := range cls.Fields {
		d, err := descriptor.Parse(f.Descriptor)
		if err != nil {
			return nil, fmt.Errorf("runtime: parsing descriptor of %s.%s: %w", className, f.Name, err)
		}
		if f.AccessFlags&classfile.AccStatic != 0 {
			statics[f.Name] = object.ZeroValue(d)
			continue
		}
		declared = append(declared, object.FieldDecl{Name: f.Name, Descriptor: d})
	}

	schema := object.NewInstanceSchema(className, super, declared)
	e.Schemas.RegisterInstance(schema)
	return schema, nil
}

// StaticFields returns className's static field table, creating an empty one
// on first reference (class initialization of statics' declared defaults is
// the caller's responsibility — §4.H doesn't model <clinit> execution order
// beyond what Tier-1 programs need).
func (e *Env) StaticFields(className string) map[string]object.Value {
	e.Lock()
	defer e.Unlock()
	t, ok := e.Statics[className]
	if !ok {
		t = make(map[string]object.Value)
		e.Statics[className] = t
	}
	return t
}
