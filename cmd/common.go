package cmd

import (
	"github.com/spf13/viper"

	"github.com/mabhi256/jvmgo/internal/classpath"
)

// buildClassPath resolves --home/--classpath (bound to the JVMGO_-prefixed
// environment via viper in root.go; with no home set, ProbeHome searches
// JVMGO_HOME, JAVA_HOME and platform defaults) into a preloaded ClassPath, the shared first step
// of every subcommand that needs to resolve a class name to bytes.
func buildClassPath() (*classpath.ClassPath, error) {
	home := viper.GetString("home")
	if home == "" {
		home = classpath.ProbeHome("")
	}
	roots := viper.GetStringSlice("classpath")
	if len(roots) == 0 {
		roots = []string{"."}
	}

	cp := classpath.New(roots, home, log.WithField("component", "classpath"))
	if err := cp.Preload(); err != nil {
		return nil, err
	}
	return cp, nil
}
