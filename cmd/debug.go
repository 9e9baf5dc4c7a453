package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mabhi256/jvmgo/internal/classpath"
	"github.com/mabhi256/jvmgo/internal/interp"
	"github.com/mabhi256/jvmgo/internal/natives"
	"github.com/mabhi256/jvmgo/internal/runtime"
	"github.com/mabhi256/jvmgo/internal/thread"
	"github.com/mabhi256/jvmgo/internal/tui"
)

var debugCmd = &cobra.Command{
	Use:   "debug [class]",
	Short: "Run a class under the interactive thread/call-stack debugger",
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
		threads.Spawn(nil)
		i := interp.New(env, table, interp.ThreadManagerHook(threads)).WithThreads(threads)

		return tui.RunDebugger(threads, func() error {
			return i.ExecuteMain(className)
		})
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
}
