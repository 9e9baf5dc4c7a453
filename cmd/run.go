package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mabhi256/jvmgo/internal/classpath"
	"github.com/mabhi256/jvmgo/internal/interp"
	"github.com/mabhi256/jvmgo/internal/natives"
	"github.com/mabhi256/jvmgo/internal/runtime"
	"github.com/mabhi256/jvmgo/internal/thread"
)

var runCmd = &cobra.Command{
	Use:   "run [class]",
	Short: "Load and execute a class's public static void main(String[])",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		className := strings.TrimSuffix(strings.ReplaceAll(args[0], ".", "/"), ".class")

		cp, err := buildClassPath()
		if err != nil {
			return err
		}
		loader := classpath.NewLoader(cp, log.WithField("component", "classpath"))
		env := runtime.New(loader, log)

		table := natives.NewTable()
		threads := thread.NewRegistry()
		threads.Spawn(nil) // thread 1: the VM's main thread
		i := interp.New(env, table, interp.ThreadManagerHook(threads)).WithThreads(threads)

		if err := i.ExecuteMain(className); err != nil {
			if javaExc, ok := err.(*interp.JavaException); ok {
				fmt.Fprintf(os.Stderr, "Exception in thread \"main\" %s\n", interp.GetClassName(javaExc.Object))
				os.Exit(1)
			}
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
