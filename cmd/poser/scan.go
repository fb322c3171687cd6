package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listAssets bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the enabled groups and report what was found",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.sess.RunScan(0); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		clips, chars := app.sess.Result().Counts()
		fmt.Fprintf(out, "animations: %d, characters: %d\n", clips, chars)
		if !listAssets {
			return nil
		}
		for _, family := range []string{"anim", "char"} {
			if err := app.reg.Execute([]string{"list", "-family", family}); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&listAssets, "list", false, "print every asset passing the name filters")
}
