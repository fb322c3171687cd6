package main

import (
	"github.com/spf13/cobra"
)

var placePoints []string

var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "Scan, then place one character per --at point",
	Long: `Scans the enabled groups, arms placement and places a character at each point.

Example:
  poser place --at 0,0,0 --at 2,0,1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.sess.RunScan(0); err != nil {
			return err
		}
		app.sess.Start()
		for _, p := range placePoints {
			if err := app.reg.Execute([]string{"place", "-at", p}); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	placeCmd.Flags().StringArrayVar(&placePoints, "at", []string{"0,0,0"}, "surface point x,y,z (repeatable)")
}
