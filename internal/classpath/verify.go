package classpath

import (
	"fmt"
	"os"
	"path/filepath"

	"go.mozilla.org/pkcs7"
)

// VerifySignature checks an unpacked archive's signature block
// (META-INF/*.RSA or META-INF/*.DSA) against the signature file it covers
// (META-INF/*.SF), the way a signed jar's trailer is validated.
func VerifySignature(dir, sigFileName, sigBlockName string) error {
	sigFile, err := os.ReadFile(filepath.Join(dir, "META-INF", sigFileName))
	if err != nil {
		return fmt.Errorf("classpath: reading signature file: %w", err)
	}
	block, err := os.ReadFile(filepath.Join(dir, "META-INF", sigBlockName))
	if err != nil {
		return fmt.Errorf("classpath: reading signature block: %w", err)
	}

	p7, err := pkcs7.Parse(block)
	if err != nil {
		return fmt.Errorf("classpath: parsing PKCS7 signature block: %w", err)
	}
	p7.Content = sigFile
	if err := p7.Verify(); err != nil {
		return fmt.Errorf("classpath: signature verification failed: %w", err)
	}
	return nil
}
