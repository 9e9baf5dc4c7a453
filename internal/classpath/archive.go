package classpath

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// UnpackedArchive records where an archive's entries were extracted, so
// repeated requests for the same archive don't re-extract it.
type UnpackedArchive struct {
	SourcePath string
	Dir        string
	Manifest   *Manifest
}

// UnpackCache maps an archive's source path to its unpacked location; each
// archive is unpacked into a directory named by a hash of that path.
type UnpackCache struct {
	baseDir string
	byPath  map[string]*UnpackedArchive
}

// NewUnpackCache creates a cache rooted at baseDir (typically
// os.TempDir()/jvmgo-classpath).
func NewUnpackCache(baseDir string) *UnpackCache {
	return &UnpackCache{baseDir: baseDir, byPath: make(map[string]*UnpackedArchive)}
}

// Unpack extracts path's entries to a stable directory derived from a hash
// of path, verifying per-entry digests from the manifest (if present)
// against the unpacked bytes. Returns the cached result on repeat calls.
func (c *UnpackCache) Unpack(path string) (*UnpackedArchive, error) {
	if ua, ok := c.byPath[path]; ok {
		return ua, nil
	}

	dir := filepath.Join(c.baseDir, hashPath(path))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("classpath: creating unpack dir for %s: %w", path, err)
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("classpath: opening archive %s: %w", path, err)
	}
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	_, overrideDir := selectMultiRelease(names, maxFeatureVersion)
	inOverride := make(map[string]bool)
	if overrideDir != "" {
		for _, n := range names {
			if strings.HasPrefix(n, overrideDir+"/") {
				inOverride[strings.TrimPrefix(n, overrideDir+"/")] = true
			}
		}
	}

	var manifestBytes, overrideManifestBytes []byte
	for _, f := range r.File {
		entryName := f.Name
		switch {
		case overrideDir != "" && strings.HasPrefix(entryName, overrideDir+"/"):
			entryName = strings.TrimPrefix(entryName, overrideDir+"/")
			if entryName == "META-INF/MANIFEST.MF" && !f.FileInfo().IsDir() {
				// read the version subtree's own manifest without
				// overlaying it onto the base manifest's file
				overrideManifestBytes, err = readZipEntry(f)
				if err != nil {
					return nil, fmt.Errorf("classpath: reading version manifest of %s: %w", path, err)
				}
				continue
			}
		case strings.HasPrefix(entryName, multiReleasePrefix):
			continue // an unselected META-INF/versions/<n> subtree
		case entryName != "META-INF/MANIFEST.MF" && inOverride[entryName]:
			continue // shadowed by the selected version subtree's entry
		}

		dest := filepath.Join(dir, filepath.FromSlash(entryName))
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return nil, err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return nil, err
		}
		if err := extractEntry(f, dest); err != nil {
			return nil, fmt.Errorf("classpath: extracting %s from %s: %w", f.Name, path, err)
		}
		if entryName == "META-INF/MANIFEST.MF" {
			manifestBytes, err = os.ReadFile(dest)
			if err != nil {
				return nil, err
			}
		}
	}

	ua := &UnpackedArchive{SourcePath: path, Dir: dir}
	if manifestBytes != nil {
		mf, err := ParseManifest(manifestBytes)
		if err != nil {
			return nil, fmt.Errorf("classpath: parsing manifest of %s: %w", path, err)
		}
		if overrideManifestBytes != nil {
			overrideMf, err := ParseManifest(overrideManifestBytes)
			if err != nil {
				return nil, fmt.Errorf("classpath: parsing version manifest of %s: %w", path, err)
			}
			mf = mergeManifest(mf, overrideMf)
		}
		ua.Manifest = mf
		if err := verifyDigests(dir, mf); err != nil {
			return nil, err
		}
	}

	c.byPath[path] = ua
	return ua, nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func extractEntry(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, rc)
	return err
}

// verifyDigests re-hashes each unpacked file named in the manifest's
// per-entry attributes and compares against the declared digest. The only
// required algorithm is SHA-256; entries without a digest
// attribute are skipped.
func verifyDigests(dir string, mf *Manifest) error {
	for _, e := range mf.Entries {
		if e.DigestSHA256 == "" {
			continue
		}
		path := filepath.Join(dir, filepath.FromSlash(e.Name))
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("classpath: reading %s for digest check: %w", e.Name, err)
		}
		sum := sha256.Sum256(data)
		got := hex.EncodeToString(sum[:])
		want, err := decodeDigest(e.DigestSHA256)
		if err != nil {
			return fmt.Errorf("classpath: malformed digest for %s: %w", e.Name, err)
		}
		if got != want {
			return &DigestMismatch{Entry: e.Name, Want: want, Got: got}
		}
	}
	return nil
}

// DigestMismatch is returned when an archive entry's unpacked bytes don't
// hash to the manifest's declared SHA-256 digest.
type DigestMismatch struct {
	Entry      string
	Want, Got  string
}

func (e *DigestMismatch) Error() string {
	return fmt.Sprintf("classpath: digest mismatch for %s: manifest says %s, computed %s", e.Entry, e.Want, e.Got)
}

func hashPath(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])[:24]
}
