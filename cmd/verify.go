package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/cobra"

	"github.com/mabhi256/jvmgo/internal/classpath"
	"github.com/mabhi256/jvmgo/utils"
)

var verifyCmd = &cobra.Command{
	Use:               "verify [archive]",
	Short:             "Check a signed jar's .SF signature file against its META-INF signature block",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".jar", ".zip"}, false),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive := args[0]

		dir, cleanup, err := unpackToTemp(archive)
		if err != nil {
			return err
		}
		defer cleanup()

		sigFile, sigBlock, err := findSignatureFiles(dir)
		if err != nil {
			return err
		}
		if sigFile == "" {
			fmt.Println("archive carries no META-INF signature files; nothing to verify")
			return nil
		}

		if err := classpath.VerifySignature(dir, sigFile, sigBlock); err != nil {
			return err
		}
		fmt.Println("signature verified")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

// unpackToTemp extracts archive's META-INF directory (the only part
// VerifySignature needs) into a temp dir, returning a cleanup func.
func unpackToTemp(archive string) (string, func(), error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return "", nil, fmt.Errorf("opening %s: %w", archive, err)
	}
	defer r.Close()

	dir, err := os.MkdirTemp("", "jvmgo-verify-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }

	for _, f := range r.File {
		if !strings.HasPrefix(f.Name, "META-INF/") || f.FileInfo().IsDir() {
			continue
		}
		if err := extractEntry(dir, f); err != nil {
			cleanup()
			return "", nil, err
		}
	}
	return dir, cleanup, nil
}

func extractEntry(dir string, f *zip.File) error {
	dest := filepath.Join(dir, f.Name)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	buf := make([]byte, 32*1024)
	for {
		n, rerr := rc.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if rerr != nil {
			break
		}
	}
	return nil
}

func findSignatureFiles(dir string) (sigFile, sigBlock string, err error) {
	entries, err := os.ReadDir(filepath.Join(dir, "META-INF"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", nil
		}
		return "", "", err
	}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".SF"):
			sigFile = name
		case strings.HasSuffix(name, ".RSA"), strings.HasSuffix(name, ".DSA"):
			sigBlock = name
		}
	}
	return sigFile, sigBlock, nil
}
