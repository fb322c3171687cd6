package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"animation-poser/internal/assetfs"
	"animation-poser/internal/catalog"
	"animation-poser/internal/commands"
	"animation-poser/internal/env"
	"animation-poser/internal/logger"
	"animation-poser/internal/prefs"
	"animation-poser/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags; defaults come from the environment and .env.
	assetsDir   string
	prefsPath   string
	catalogPath string
	logLevel    string
	logFile     string
	seed        int64

	app *poser
)

// poser is everything a subcommand needs, built once in PersistentPreRunE.
type poser struct {
	log  *logger.Logger
	sess *session.Session
	reg  *commands.Registry
	// closer releases a zipped asset library; nil for a directory.
	closer io.Closer
}

var rootCmd = &cobra.Command{
	Use:   "poser",
	Short: "Place randomly posed characters into a scene",
	Long: `poser scans animation and character groups in an asset library, then places
characters posed with a random frame of a random animation wherever you click.

Settings (enabled groups, name filters, placement options) persist between runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		app, err = newPoser(cmd)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app == nil {
			return
		}
		if app.closer != nil {
			_ = app.closer.Close()
		}
		_ = app.log.Zap().Sync()
	},
}

func init() {
	if err := env.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	v := env.Read()
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&assetsDir, "assets", v.Assets, "asset library directory or .zip ("+env.AssetsVar+")")
	pf.StringVar(&prefsPath, "prefs", v.Prefs, "settings file ("+env.PrefsVar+")")
	pf.StringVar(&catalogPath, "catalog", v.Catalog, "catalog YAML replacing the built-in groups ("+env.CatalogVar+")")
	pf.StringVar(&logLevel, "log-level", v.LogLevel, "debug, info, warn or error ("+env.LogLevelVar+")")
	pf.StringVar(&logFile, "log-file", v.LogFile, "stderr, stdout or a file path ("+env.LogFileVar+")")
	pf.Int64Var(&seed, "seed", 0, "random seed; 0 picks one from the clock")

	rootCmd.AddCommand(scanCmd, placeCmd, consoleCmd, viewCmd)
}

func newPoser(cmd *cobra.Command) (*poser, error) {
	z, err := logger.NewZap(logger.Config{Level: logLevel, OutputPath: logFile})
	if err != nil {
		return nil, err
	}
	log := logger.New(z)

	cat := catalog.Default()
	if catalogPath != "" {
		data, err := os.ReadFile(catalogPath)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		if cat, err = catalog.Parse(data); err != nil {
			return nil, err
		}
	}

	var (
		store  *assetfs.Store
		closer io.Closer
	)
	if assetfs.IsZip(assetsDir) {
		store, closer, err = assetfs.OpenZip(assetsDir)
	} else {
		store, err = assetfs.Open(assetsDir)
	}
	if err != nil {
		return nil, err
	}

	s := seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	z.Debug("starting", zap.String("assets", assetsDir), zap.String("prefs", prefsPath), zap.Int64("seed", s))

	sess := session.New(session.Config{
		Store:      store,
		Classifier: cat.Classifier(),
		Defaults:   cat.Groups(),
		Prefs:      prefs.Load(prefsPath),
		Rand:       rand.New(rand.NewSource(s)),
		Log:        z,
		OnStatus:   log.Log,
	})

	out := cmd.OutOrStdout()
	reg := commands.NewRegistry(out)
	commands.RegisterPoser(reg, sess, out)
	return &poser{log: log, sess: sess, reg: reg, closer: closer}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
