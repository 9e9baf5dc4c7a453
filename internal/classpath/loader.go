package classpath

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/sirupsen/logrus"

	"github.com/mabhi256/jvmgo/internal/classfile"
	"github.com/mabhi256/jvmgo/internal/descriptor"
)

// Loader resolves a class name to parsed bytes, unpacking archives and
// recursively loading superclasses/dependents as needed.
type Loader struct {
	Registry map[string]*classfile.Class
	ClassPath *ClassPath
	pending   map[string]bool
	archives  *UnpackCache

	log *logrus.Entry
}

// NewLoader builds a Loader over an already-preloaded ClassPath.
func NewLoader(cp *ClassPath, log *logrus.Entry) *Loader {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Loader{
		Registry:  make(map[string]*classfile.Class),
		ClassPath: cp,
		pending:   make(map[string]bool),
		archives:  NewUnpackCache(filepath.Join(os.TempDir(), "jvmgo-classpath")),
		log:       log,
	}
}

// AttemptLoad returns true if name is already loaded; otherwise resolves it
// through the class path, unpacking its archive on demand if needed, then
// parses it and recursively loads its superclass (unless java/lang/Object).
func (l *Loader) AttemptLoad(name string) (bool, error) {
	if _, ok := l.Registry[name]; ok {
		return true, nil
	}
	if l.pending[name] {
		return false, fmt.Errorf("classpath: cyclic load of %s", name)
	}
	l.pending[name] = true
	defer delete(l.pending, name)

	src, ok := l.ClassPath.Discovered[name]
	if !ok {
		return false, fmt.Errorf("classpath: class not found: %s", name)
	}

	data, err := l.readSource(src)
	if err != nil {
		return false, err
	}

	c, err := classfile.Parse(bytes.NewReader(data))
	if err != nil {
		return false, fmt.Errorf("classpath: parsing %s: %w", name, err)
	}
	l.Registry[name] = c

	super, err := c.SuperName()
	if err != nil {
		return false, fmt.Errorf("classpath: resolving superclass of %s: %w", name, err)
	}
	if super != "" && super != classfile.ObjectClassName {
		if _, err := l.AttemptLoad(super); err != nil {
			return false, fmt.Errorf("classpath: loading superclass %s of %s: %w", super, name, err)
		}
	}
	return true, nil
}

func (l *Loader) readSource(src Source) ([]byte, error) {
	switch src.Kind {
	case SourceLooseFile:
		return readMapped(src.Path)
	case SourceArchiveEntry:
		ua, err := l.archives.Unpack(src.Path)
		if err != nil {
			return nil, fmt.Errorf("classpath: unpacking %s: %w", src.Path, err)
		}
		return os.ReadFile(filepath.Join(ua.Dir, filepath.FromSlash(src.Name)))
	default:
		return nil, fmt.Errorf("classpath: unknown source kind %d", src.Kind)
	}
}

// readMapped memory-maps a loose .class file and returns a copy of its
// bytes; the mapping is released before it returns.
func readMapped(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer m.Unmap()
	out := make([]byte, len(m))
	copy(out, m)
	return out, nil
}

// LoadDependents iteratively loads the transitive closure of class names
// referenced from name's Class-tagged constant pool entries and member
// descriptors, terminating via a visited set.
func (l *Loader) LoadDependents(name string) error {
	visited := make(map[string]bool)
	queue := []string{name}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true

		if _, err := l.AttemptLoad(cur); err != nil {
			return err
		}
		c := l.Registry[cur]

		for _, dep := range classDependencies(c) {
			if !visited[dep] {
				queue = append(queue, dep)
			}
		}
	}
	return nil
}

// classDependencies collects every class name c's constant pool or member
// descriptors refer to: direct Class entries (array classes, which are named
// by their descriptor, contribute their element class names) plus names
// decoded out of field/method descriptors.
func classDependencies(c *classfile.Class) []string {
	seen := map[string]bool{}
	var out []string
	add := func(n string) {
		if n != "" && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}

	for _, e := range c.Pool {
		if e.Tag == classfile.TagClass {
			if name, err := c.Pool.AsUTF8(e.Index); err == nil {
				if len(name) > 0 && name[0] == '[' {
					if d, err := descriptor.Parse(name); err == nil {
						for _, dep := range d.ClassUsage() {
							add(dep)
						}
					}
					continue
				}
				add(name)
			}
		}
	}

	for _, m := range c.Fields {
		if d, err := descriptor.Parse(m.Descriptor); err == nil {
			for _, dep := range d.ClassUsage() {
				add(dep)
			}
		}
	}
	for _, m := range c.Methods {
		if d, err := descriptor.Parse(m.Descriptor); err == nil {
			for _, dep := range d.ClassUsage() {
				add(dep)
			}
		}
	}

	return out
}
