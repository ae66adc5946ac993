package main

import (
	"fmt"
	"os"

	"github.com/iov-one/quorum/commands"
	"github.com/iov-one/quorum/errors"
)

func main() {
	root := commands.NewRootCmd(os.Stdout)
	if err := root.Execute(); err != nil {
		code, msg := errors.Info(err, commands.IsDebug(root))
		fmt.Fprintf(os.Stderr, "Error (code %d): %s\n", code, msg)
		os.Exit(1)
	}
}
