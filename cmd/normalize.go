package cmd

import (
	"fmt"
	"github.com/cottand/tcore/scenario"
	"github.com/cottand/tcore/tyerr"
	"github.com/cottand/tcore/types"
	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newNormalizeCmd(opts *options) *cobra.Command {
	var (
		typeName string
		dump     bool
	)
	cmd := &cobra.Command{
		Use:          "normalize FILE --type NAME",
		Short:        "Print the normal form of a type declared in a scenario file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			en, err := opts.newEngine(cmd)
			if err != nil {
				return err
			}
			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			normal, err := en.Normalize(sc.Env, types.Ref(typeName))
			if err != nil {
				return errors.New(tyerr.Format(err))
			}
			if dump {
				_, err = pretty.Fprintf(cmd.OutOrStdout(), "%# v\n", normal)
			} else {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), normal)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "name of the type to normalize")
	cmd.Flags().BoolVar(&dump, "dump", false, "print the Go representation of the result")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
