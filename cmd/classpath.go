package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var classpathCmd = &cobra.Command{
	Use:   "classpath",
	Short: "List every class name discovered on the current search path",
	RunE: func(cmd *cobra.Command, args []string) error {
		cp, err := buildClassPath()
		if err != nil {
			return err
		}

		names := make([]string, 0, len(cp.Discovered))
		for name := range cp.Discovered {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			src := cp.Discovered[name]
			if src.Path != "" && src.Name != "" {
				fmt.Printf("%s\t%s!%s\n", name, src.Path, src.Name)
			} else {
				fmt.Printf("%s\t%s\n", name, src.Path)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classpathCmd)
}
