package main

import (
	"strconv"

	"animation-poser/internal/viewer"

	"github.com/spf13/cobra"
)

var (
	windowWidth  int32
	windowHeight int32
	showMem      bool
	terrainSize  int
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open a window and place characters by clicking the ground",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if terrainSize > 0 {
			if err := app.reg.Execute([]string{"terrain", "-size", strconv.Itoa(terrainSize)}); err != nil {
				return err
			}
		}
		v := viewer.New(app.sess, app.log, app.reg)
		v.SetShowMemAlloc(showMem)
		v.Run(viewer.WindowConfig{Width: windowWidth, Height: windowHeight})
		return app.sess.Save()
	},
}

func init() {
	viewCmd.Flags().Int32Var(&windowWidth, "width", 1280, "window width; 0 for fullscreen")
	viewCmd.Flags().Int32Var(&windowHeight, "height", 720, "window height; 0 for fullscreen")
	viewCmd.Flags().BoolVar(&showMem, "mem", false, "show heap allocation")
	viewCmd.Flags().IntVar(&terrainSize, "terrain", 0, "generate step terrain with this many tiles per side")
}
