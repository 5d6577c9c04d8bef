// Package motorctl implements the motorctl command line tool: motor
// selection against local catalog files or a running service, and catalog
// validation.
package motorctl

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/liftmotor/internal/config"
	"github.com/okian/liftmotor/pkg/logger"
)

// app carries state shared by all subcommands.
type app struct {
	out    io.Writer
	errOut io.Writer

	cfg *config.Config
	log logger.Logger

	gearless string
	geared   string
	logLevel string
}

// NewRootCommand builds the motorctl command tree writing to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "motorctl",
		Short:         "Select elevator motors from the gearless and geared catalogs",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.gearless, "gearless", "", "gearless catalog file (.csv or .xlsx); overrides LIFTMOTOR_GEARLESS_CATALOG")
	root.PersistentFlags().StringVar(&a.geared, "geared", "", "geared catalog file (.csv or .xlsx); overrides LIFTMOTOR_GEARED_CATALOG")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(newSelectCommand(a), newCatalogsCommand(a))
	return root
}

// setup loads configuration, applies flag overrides and builds the logger.
// Logs go to errOut so they never mix with command output.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if a.gearless != "" {
		cfg.GearlessCatalog = a.gearless
	}
	if a.geared != "" {
		cfg.GearedCatalog = a.geared
	}
	a.cfg = cfg

	if err := logger.SetLevelString(a.logLevel); err != nil {
		return err
	}
	a.log = logger.New(a.errOut, logger.Format(cfg.LogFormat)).Named("motorctl")
	return nil
}
