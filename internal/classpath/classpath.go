// Package classpath discovers class files across directories and archives,
// and loads classes (plus their transitive dependencies) on demand.
package classpath

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/sirupsen/logrus"
)

// SourceKind distinguishes where a discovered class's bytes live.
type SourceKind int

const (
	SourceLooseFile SourceKind = iota
	SourceArchiveEntry
)

// Source records where a discovered class name's bytes can be found.
type Source struct {
	Kind SourceKind
	Path string // loose: the .class file path; archive: the archive's path
	Name string // archive only: the entry's path from the archive root (a selected META-INF/versions/<n>/ prefix removed), ".class" suffix intact
}

// ClassPath tracks the runtime home directory, the search roots, and every
// class name discovered across them.
type ClassPath struct {
	HomeDir     string
	SearchRoots []string
	Discovered  map[string]Source

	log *logrus.Entry
}

// New builds a ClassPath over the given search roots (directories or
// archive files) plus an optional home directory's rt.jar/lib.
func New(roots []string, homeDir string, log *logrus.Entry) *ClassPath {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	cp := &ClassPath{
		HomeDir:     homeDir,
		SearchRoots: append([]string{}, roots...),
		Discovered:  make(map[string]Source),
		log:         log,
	}
	if homeDir != "" {
		for _, candidate := range []string{
			filepath.Join(homeDir, "jre", "lib", "rt.jar"),
			filepath.Join(homeDir, "lib", "rt.jar"),
		} {
			if _, err := os.Stat(candidate); err == nil {
				cp.SearchRoots = append(cp.SearchRoots, candidate)
				break
			}
		}
	}
	return cp
}

// Preload scans every search root, populating Discovered. First path to
// declare a given class name wins; later declarations are logged and
// ignored.
func (cp *ClassPath) Preload() error {
	for _, root := range cp.SearchRoots {
		info, err := os.Stat(root)
		if err != nil {
			cp.log.WithError(err).WithField("root", root).Warn("search root unavailable, skipping")
			continue
		}
		if info.IsDir() {
			if err := cp.scanDir(root); err != nil {
				return err
			}
			continue
		}
		if isArchive(root) {
			if err := cp.scanArchive(root); err != nil {
				return err
			}
			continue
		}
		if strings.HasSuffix(root, ".class") {
			cp.declareLooseClass(root)
		}
	}
	return nil
}

func (cp *ClassPath) scanDir(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".class") {
			cp.declareLooseClass(path)
		}
		return nil
	})
}

func (cp *ClassPath) declareLooseClass(path string) {
	name, err := peekClassName(path)
	if err != nil {
		cp.log.WithError(err).WithField("path", path).Warn("failed to peek class name, skipping")
		return
	}
	cp.declare(name, Source{Kind: SourceLooseFile, Path: path})
}

func (cp *ClassPath) scanArchive(path string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	_, overrideDir := selectMultiRelease(names, maxFeatureVersion)
	if overrideDir != "" {
		cp.log.WithFields(logrus.Fields{"archive": path, "versionDir": overrideDir}).
			Debug("using multi-release version subtree")
	}

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entryName := f.Name
		switch {
		case overrideDir != "" && strings.HasPrefix(entryName, overrideDir+"/"):
			// a selected version subtree's entry shadows the unversioned
			// one at the same relative path, so it's declared under that
			// unprefixed name instead of its literal archive path
			entryName = strings.TrimPrefix(entryName, overrideDir+"/")
		case strings.HasPrefix(entryName, multiReleasePrefix):
			continue // an unselected META-INF/versions/<n> subtree
		}
		if !strings.HasSuffix(entryName, ".class") {
			continue
		}
		name := strings.TrimSuffix(entryName, ".class")
		cp.declare(name, Source{Kind: SourceArchiveEntry, Path: path, Name: entryName})
	}
	return nil
}

func (cp *ClassPath) declare(name string, src Source) {
	if _, exists := cp.Discovered[name]; exists {
		cp.log.WithFields(logrus.Fields{"class": name, "source": src.Path}).
			Debug("class already discovered by an earlier search root, ignoring")
		return
	}
	cp.Discovered[name] = src
}

func isArchive(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".jar" || ext == ".zip" || ext == ".jmod"
}

// ProbeHome locates a JVM installation home by, in order: a user-provided
// hint, the JVMGO_HOME/JAVA_HOME environment variables, sibling
// directories of that installation, and a platform fallback.
func ProbeHome(hint string) string {
	if hint != "" {
		if ok, _ := hasRuntimeJar(hint); ok {
			return hint
		}
	}
	for _, envVar := range []string{"JVMGO_HOME", "JAVA_HOME"} {
		if v := os.Getenv(envVar); v != "" {
			if ok, _ := hasRuntimeJar(v); ok {
				return v
			}
			for _, sibling := range siblings(v) {
				if ok, _ := hasRuntimeJar(sibling); ok {
					return sibling
				}
			}
		}
	}
	for _, fallback := range platformFallbacks() {
		if ok, _ := hasRuntimeJar(fallback); ok {
			return fallback
		}
	}
	return ""
}

func hasRuntimeJar(root string) (bool, error) {
	for _, candidate := range []string{
		filepath.Join(root, "jre", "lib", "rt.jar"),
		filepath.Join(root, "lib", "rt.jar"),
	} {
		if _, err := os.Stat(candidate); err == nil {
			return true, nil
		}
	}
	return false, nil
}

func siblings(installPath string) []string {
	parent := filepath.Dir(installPath)
	entries, err := os.ReadDir(parent)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, filepath.Join(parent, e.Name()))
		}
	}
	return out
}

func platformFallbacks() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\Program Files\Java`,
			`C:\Program Files (x86)\Java`,
		}
	default:
		return []string{"/usr/lib/jvm"}
	}
}
