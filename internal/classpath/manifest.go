package classpath

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// ManifestEntry is one per-entry section of a manifest: name, content
// type, java bean flag, digest, and magic.
type ManifestEntry struct {
	Name         string
	ContentType  string
	JavaBean     bool
	DigestSHA256 string // base64, as manifests declare it ("<Algorithm>-Digest")
	Magic        string
}

// Manifest is the decoded form of META-INF/MANIFEST.MF:
// {version, creator, signature_version, class_path, main_class,
// launcher_agent_class, entries[]}.
type Manifest struct {
	Version             string
	CreatedBy           string
	SignatureVersion    string
	ClassPath           []string
	MainClass           string
	LauncherAgentClass  string
	Entries             []ManifestEntry
}

// ParseManifest decodes a manifest's text form: 72-byte soft line limit,
// continuation lines beginning with a single space, sections separated by
// a blank line (first section is the main attributes, the rest are
// per-entry attribute blocks headed by "Name: ...").
func ParseManifest(data []byte) (*Manifest, error) {
	lines, err := unfoldContinuations(data)
	if err != nil {
		return nil, err
	}

	mf := &Manifest{}
	var sections [][]string
	var cur []string
	for _, line := range lines {
		if line == "" {
			if len(cur) > 0 {
				sections = append(sections, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		sections = append(sections, cur)
	}

	if len(sections) == 0 {
		return mf, nil
	}

	main := parseAttributes(sections[0])
	mf.Version = main["Manifest-Version"]
	mf.CreatedBy = main["Created-By"]
	mf.SignatureVersion = main["Signature-Version"]
	mf.MainClass = main["Main-Class"]
	mf.LauncherAgentClass = main["Launcher-Agent-Class"]
	if cp := main["Class-Path"]; cp != "" {
		mf.ClassPath = strings.Fields(cp)
	}

	for _, section := range sections[1:] {
		attrs := parseAttributes(section)
		name := attrs["Name"]
		if name == "" {
			continue
		}
		entry := ManifestEntry{
			Name:         name,
			ContentType:  attrs["Content-Type"],
			JavaBean:     attrs["Java-Bean"] == "True",
			DigestSHA256: attrs["SHA-256-Digest"],
			Magic:        attrs["Magic"],
		}
		mf.Entries = append(mf.Entries, entry)
	}

	return mf, nil
}

func parseAttributes(lines []string) map[string]string {
	out := make(map[string]string)
	for _, line := range lines {
		idx := strings.Index(line, ": ")
		if idx < 0 {
			continue
		}
		out[line[:idx]] = line[idx+2:]
	}
	return out
}

// unfoldContinuations joins continuation lines (a line beginning with a
// single space is the tail of the previous line, with the space stripped)
// back into their logical attribute lines.
func unfoldContinuations(data []byte) ([]string, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	var logical []string
	for scanner.Scan() {
		raw := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(raw, " ") && len(logical) > 0 {
			logical[len(logical)-1] += raw[1:]
			continue
		}
		logical = append(logical, raw)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("classpath: scanning manifest: %w", err)
	}
	return logical, nil
}

// decodeDigest normalizes a manifest's base64-encoded digest to lowercase
// hex for comparison against a freshly computed sha256.Sum256.
func decodeDigest(b64 string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
