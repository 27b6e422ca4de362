package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/majorcontext/ghbroker/cmd/ghbroker/cli"
)

func main() {
	// Git invokes the askpass helper by path with the prompt as the sole
	// argument. Installing the binary (or a symlink) under a name ending in
	// "askpass" makes it behave as that helper directly, so GIT_ASKPASS can
	// point straight at it.
	if strings.HasSuffix(filepath.Base(os.Args[0]), "askpass") {
		os.Args = append([]string{os.Args[0], "askpass"}, os.Args[1:]...)
	}

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
