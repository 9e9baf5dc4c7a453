// Package descriptor parses and formats JVM field, array, and method type
// descriptors.
package descriptor

import (
	"fmt"
	"strings"
)

// Kind identifies which alternative of the Descriptor sum type a value is.
type Kind int

const (
	KindByte Kind = iota
	KindChar
	KindDouble
	KindFloat
	KindInt
	KindLong
	KindShort
	KindBoolean
	KindObject
	KindArray
	KindVoid
	KindMethod
)

// Descriptor is the sum type over {Byte, Char, Double, Float, Int, Long,
// Short, Boolean, Object(class_name), Array(of Descriptor), Void,
// Method{args[], returns}}.
type Descriptor struct {
	Kind Kind

	ClassName string      // KindObject
	Elem      *Descriptor // KindArray
	Args      []Descriptor // KindMethod
	Returns   *Descriptor  // KindMethod
}

// String names a Kind for diagnostics (not the descriptor grammar letter;
// see Descriptor.String for that).
func (k Kind) String() string {
	switch k {
	case KindByte:
		return "byte"
	case KindChar:
		return "char"
	case KindDouble:
		return "double"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindShort:
		return "short"
	case KindBoolean:
		return "boolean"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindVoid:
		return "void"
	case KindMethod:
		return "method"
	default:
		return "unknown"
	}
}

// IsCategory2 reports whether this primitive occupies two stack/local slots
// (long, double) per the JVM spec.
func (d Descriptor) IsCategory2() bool {
	return d.Kind == KindLong || d.Kind == KindDouble
}

// Parse decodes a single field/array/method descriptor string.
func Parse(s string) (Descriptor, error) {
	d, rest, err := parseOne(s)
	if err != nil {
		return Descriptor{}, err
	}
	if rest != "" {
		return Descriptor{}, fmt.Errorf("descriptor: trailing data %q after %q", rest, s)
	}
	return d, nil
}

func parseOne(s string) (Descriptor, string, error) {
	if s == "" {
		return Descriptor{}, "", fmt.Errorf("descriptor: empty descriptor")
	}
	switch s[0] {
	case 'B':
		return Descriptor{Kind: KindByte}, s[1:], nil
	case 'C':
		return Descriptor{Kind: KindChar}, s[1:], nil
	case 'D':
		return Descriptor{Kind: KindDouble}, s[1:], nil
	case 'F':
		return Descriptor{Kind: KindFloat}, s[1:], nil
	case 'I':
		return Descriptor{Kind: KindInt}, s[1:], nil
	case 'J':
		return Descriptor{Kind: KindLong}, s[1:], nil
	case 'S':
		return Descriptor{Kind: KindShort}, s[1:], nil
	case 'Z':
		return Descriptor{Kind: KindBoolean}, s[1:], nil
	case 'V':
		return Descriptor{Kind: KindVoid}, s[1:], nil
	case 'L':
		end := strings.IndexByte(s, ';')
		if end < 0 {
			return Descriptor{}, "", fmt.Errorf("descriptor: unterminated object descriptor %q", s)
		}
		return Descriptor{Kind: KindObject, ClassName: s[1:end]}, s[end+1:], nil
	case '[':
		elem, rest, err := parseOne(s[1:])
		if err != nil {
			return Descriptor{}, "", fmt.Errorf("descriptor: array element: %w", err)
		}
		return Descriptor{Kind: KindArray, Elem: &elem}, rest, nil
	case '(':
		rest := s[1:]
		var args []Descriptor
		for len(rest) > 0 && rest[0] != ')' {
			var arg Descriptor
			var err error
			arg, rest, err = parseOne(rest)
			if err != nil {
				return Descriptor{}, "", fmt.Errorf("descriptor: method arg: %w", err)
			}
			args = append(args, arg)
		}
		if len(rest) == 0 {
			return Descriptor{}, "", fmt.Errorf("descriptor: unterminated method descriptor %q", s)
		}
		rest = rest[1:] // consume ')'
		ret, rest, err := parseOne(rest)
		if err != nil {
			return Descriptor{}, "", fmt.Errorf("descriptor: method return: %w", err)
		}
		return Descriptor{Kind: KindMethod, Args: args, Returns: &ret}, rest, nil
	default:
		return Descriptor{}, "", fmt.Errorf("descriptor: unrecognized leading byte %q in %q", s[0], s)
	}
}

// String formats d back to its descriptor grammar form; Parse(d.String())
// round-trips to an equal Descriptor.
func (d Descriptor) String() string {
	switch d.Kind {
	case KindByte:
		return "B"
	case KindChar:
		return "C"
	case KindDouble:
		return "D"
	case KindFloat:
		return "F"
	case KindInt:
		return "I"
	case KindLong:
		return "J"
	case KindShort:
		return "S"
	case KindBoolean:
		return "Z"
	case KindVoid:
		return "V"
	case KindObject:
		return "L" + d.ClassName + ";"
	case KindArray:
		return "[" + d.Elem.String()
	case KindMethod:
		var sb strings.Builder
		sb.WriteByte('(')
		for _, a := range d.Args {
			sb.WriteString(a.String())
		}
		sb.WriteByte(')')
		sb.WriteString(d.Returns.String())
		return sb.String()
	default:
		return ""
	}
}

// ClassUsage returns the set of object class names syntactically appearing
// in d (including inside arrays and method signatures), used by the class
// path's dependency crawler.
func (d Descriptor) ClassUsage() []string {
	seen := map[string]bool{}
	var out []string
	var walk func(Descriptor)
	walk = func(d Descriptor) {
		switch d.Kind {
		case KindObject:
			if !seen[d.ClassName] {
				seen[d.ClassName] = true
				out = append(out, d.ClassName)
			}
		case KindArray:
			walk(*d.Elem)
		case KindMethod:
			for _, a := range d.Args {
				walk(a)
			}
			walk(*d.Returns)
		}
	}
	walk(d)
	return out
}
