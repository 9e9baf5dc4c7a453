package classpath

import (
	"fmt"
	"os"

	"github.com/mabhi256/jvmgo/internal/classfile"
)

// peekClassName parses just enough of a loose .class file to learn its
// this_class name. There's no cheaper partial-parse path worth having:
// the constant pool must be fully decoded to resolve the this_class index
// regardless, so this simply runs the full parser and discards the result.
func peekClassName(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	c, err := classfile.Parse(f)
	if err != nil {
		return "", fmt.Errorf("peeking class name: %w", err)
	}
	return c.Name()
}
