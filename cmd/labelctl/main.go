// Command labelctl reviews and exports job-posting labels from a terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"labeler/internal/backend"
	"labeler/internal/config"
)

func main() {
	root, teardown := newRootCmd(func(cfg *config.Config) (*backend.Backend, error) {
		return backend.Open(cfg, afero.NewOsFs())
	})
	err := root.Execute()
	teardown()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
