package classpath

import (
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/mabhi256/jvmgo/internal/classfile"
)

// multiReleasePrefix matches entries under META-INF/versions/<n>/.
const multiReleasePrefix = "META-INF/versions/"

// maxFeatureVersion is the highest Java feature version multi-release
// archive selection targets, derived from the highest class file major
// version the interpreter accepts (class file format 55 = feature version
// 11; major = feature + 44).
const maxFeatureVersion = classfile.MaxSupportedMajor - 44

// selectMultiRelease picks, among an archive's META-INF/versions/<n>/
// subtrees, the highest n not exceeding maxFeatureVersion. The caller is
// responsible for merging the chosen subtree's manifest (if any) over the
// root manifest via mergeManifest — the subtree's attributes override the
// root's on a per-attribute basis, and the root fills in whatever the
// subtree doesn't declare.
func selectMultiRelease(entries []string, maxFeatureVersion int) (chosenVersion int, overrideDir string) {
	versions := map[int]bool{}
	for _, e := range entries {
		if !strings.HasPrefix(e, multiReleasePrefix) {
			continue
		}
		rest := strings.TrimPrefix(e, multiReleasePrefix)
		seg := rest
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			seg = rest[:idx]
		}
		if n, err := strconv.Atoi(seg); err == nil {
			versions[n] = true
		}
	}
	var sorted []int
	for v := range versions {
		if v <= maxFeatureVersion {
			sorted = append(sorted, v)
		}
	}
	sort.Ints(sorted)
	if len(sorted) == 0 {
		return 0, ""
	}
	best := sorted[len(sorted)-1]
	return best, path.Join(multiReleasePrefix, strconv.Itoa(best))
}

// mergeManifest overlays override's declared attributes onto a copy of
// base, leaving base's attributes in place wherever override leaves them
// unset.
func mergeManifest(base, override *Manifest) *Manifest {
	if override == nil {
		return base
	}
	merged := *base
	if override.Version != "" {
		merged.Version = override.Version
	}
	if override.CreatedBy != "" {
		merged.CreatedBy = override.CreatedBy
	}
	if override.SignatureVersion != "" {
		merged.SignatureVersion = override.SignatureVersion
	}
	if override.MainClass != "" {
		merged.MainClass = override.MainClass
	}
	if override.LauncherAgentClass != "" {
		merged.LauncherAgentClass = override.LauncherAgentClass
	}
	if len(override.ClassPath) > 0 {
		merged.ClassPath = override.ClassPath
	}
	if len(override.Entries) > 0 {
		byName := map[string]ManifestEntry{}
		for _, e := range base.Entries {
			byName[e.Name] = e
		}
		for _, e := range override.Entries {
			byName[e.Name] = e
		}
		entries := make([]ManifestEntry, 0, len(byName))
		for _, e := range byName {
			entries = append(entries, e)
		}
		merged.Entries = entries
	}
	return &merged
}
