package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bex/internal/app"
)

func (c *CLI) clean(cmd *cobra.Command, all bool) error {
	return c.app.Clean(cmd.Context(), app.CleanOptions{
		Directory: c.flags.directory,
		CacheRoot: c.flags.cacheDir,
		All:       all,
	})
}
