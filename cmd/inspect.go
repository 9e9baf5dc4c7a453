package cmd

import (
	"fmt"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/cobra"

	"github.com/mabhi256/jvmgo/internal/classfile"
	"github.com/mabhi256/jvmgo/internal/classpath"
	"github.com/mabhi256/jvmgo/internal/descriptor"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [class]",
	Short: "Print a class file's constant pool size, fields, and methods",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cp, err := buildClassPath()
		if err != nil {
			return err
		}

		className := args[0]
		src, ok := cp.Discovered[className]
		if !ok {
			return fmt.Errorf("class not found on search path: %s", className)
		}

		cls, err := loadClassFile(src)
		if err != nil {
			return err
		}

		printClassSummary(cls)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// loadClassFile parses src's bytes, whether it's a loose .class file on
// disk or an entry inside a .jar/.zip archive.
func loadClassFile(src classpath.Source) (*classfile.Class, error) {
	if src.Kind == classpath.SourceLooseFile {
		return classfile.ParseFile(src.Path)
	}

	r, err := zip.OpenReader(src.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", src.Path, err)
	}
	defer r.Close()

	f, err := r.Open(src.Name)
	if err != nil {
		return nil, fmt.Errorf("opening %s!%s: %w", src.Path, src.Name, err)
	}
	defer f.Close()

	return classfile.Parse(f)
}

func printClassSummary(cls *classfile.Class) {
	name, _ := cls.Name()
	super, _ := cls.SuperName()
	fmt.Printf("class %s\n", name)
	fmt.Printf("  super: %s\n", super)
	fmt.Printf("  version: %d.%d\n", cls.Version.Major, cls.Version.Minor)
	fmt.Printf("  constant pool: %d entries\n", cls.Pool.Count())

	fmt.Printf("  fields (%d):\n", len(cls.Fields))
	for _, f := range cls.Fields {
		d, err := descriptor.Parse(f.Descriptor)
		kind := f.Descriptor
		if err == nil {
			kind = d.String()
		}
		fmt.Printf("    %s %s\n", f.Name, kind)
	}

	fmt.Printf("  methods (%d):\n", len(cls.Methods))
	for _, m := range cls.Methods {
		size := 0
		if m.Code != nil {
			size = len(m.Code.Instructions)
		}
		fmt.Printf("    %s%s (%d bytes of code)\n", m.Name, m.Descriptor, size)
	}
}
