package dso

import (
	"os"
	"path/filepath"
	"strings"
)

// EnvDsoPath names the environment variable holding extra library
// directories.
const EnvDsoPath = "RDL2_DSO_PATH"

// Finder builds the default library search path.
type Finder struct {
	// Getenv reads environment variables. Defaults to os.Getenv.
	Getenv func(string) string
	// Executable is the program whose location hints at the library
	// directory. Defaults to "raas_render".
	Executable string
}

// NewFinder returns a Finder reading the process environment.
func NewFinder() *Finder {
	return &Finder{Getenv: os.Getenv, Executable: "raas_render"}
}

func (f *Finder) getenv(key string) string {
	if f.Getenv == nil {
		return os.Getenv(key)
	}
	return f.Getenv(key)
}

// GuessDsoPath looks for the executable along PATH and returns the
// rdl2dso directory next to its bin directory, or "".
func (f *Finder) GuessDsoPath() string {
	exe := f.Executable
	if exe == "" {
		exe = "raas_render"
	}
	pathEnv := f.getenv("PATH")
	if pathEnv == "" {
		return ""
	}
	for _, dir := range strings.Split(pathEnv, ":") {
		if dir == "" {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, exe))
		if err != nil || info.IsDir() {
			continue
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			abs = resolved
		}
		return filepath.Join(filepath.Dir(abs), "rdl2dso")
	}
	return ""
}

// Find returns "." followed by RDL2_DSO_PATH and the guessed directory,
// joined with colons.
func (f *Finder) Find() string {
	path := "."
	if env := f.getenv(EnvDsoPath); env != "" {
		path += ":" + env
	}
	if guess := f.GuessDsoPath(); guess != "" {
		path += ":" + guess
	}
	return path
}

// ParseDsoPath scans command line arguments for --dso_path, --dso-path and
// -d, and prepends the chosen value to Find. For each flag the last
// occurrence counts; -d takes precedence over --dso-path, which takes
// precedence over --dso_path.
func (f *Finder) ParseDsoPath(args []string) string {
	var chosen string
	for _, flag := range []string{"--dso_path", "--dso-path", "-d"} {
		if v := lastFlagValue(args, flag); v != "" {
			chosen = v
		}
	}
	found := f.Find()
	if chosen != "" {
		return chosen + ":" + found
	}
	return found
}

// lastFlagValue returns the value of the last "flag value" or "flag=value"
// occurrence in args.
func lastFlagValue(args []string, flag string) string {
	var v string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == flag && i+1 < len(args):
			v = args[i+1]
			i++
		case strings.HasPrefix(args[i], flag+"="):
			v = strings.TrimPrefix(args[i], flag+"=")
		}
	}
	return v
}
