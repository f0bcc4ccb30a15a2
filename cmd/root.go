package cmd

import "github.com/spf13/cobra"

// NewRootCmd returns the tcore command with all of its subcommands
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "tcore [subcommand]",
		Short:        "tcore resolves, instantiates and relates nominal generic types",
		SilenceUsage: true,
	}
	opts.register(root)
	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newNormalizeCmd(opts))
	return root
}
