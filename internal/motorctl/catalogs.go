package motorctl

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/liftmotor/internal/adapters/catalog"
	service "github.com/okian/liftmotor/internal/app"
	"github.com/okian/liftmotor/internal/domain/motor"
)

func newCatalogsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalogs",
		Short: "Inspect the motor catalogs",
	}
	cmd.AddCommand(newValidateCommand(a), newShowCommand(a))
	return cmd
}

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load every configured catalog and report schema or row errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			failed := 0
			for _, src := range service.Sources(a.cfg) {
				c, err := catalog.LoadFile(cmd.Context(), src.Path, src.Type)
				if err != nil {
					failed++
					fmt.Fprintf(a.out, "%-9s %s: FAILED: %v\n", src.Type, src.Path, err)
					continue
				}
				travel := "no"
				if c.HasTravel() {
					travel = "yes"
				}
				fmt.Fprintf(a.out, "%-9s %s: ok (%d rows, travel column: %s)\n", src.Type, src.Path, c.Len(), travel)
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d catalog(s)", ErrValidationFailed, failed)
			}
			return nil
		},
	}
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "show <gearless|geared>",
		Short:     "Print every row of one catalog",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"gearless", "geared"},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := motor.ParseType(args[0])
			if err != nil {
				return err
			}
			for _, src := range service.Sources(a.cfg) {
				if src.Type != t {
					continue
				}
				c, err := catalog.LoadFile(cmd.Context(), src.Path, t)
				if err != nil {
					return err
				}
				RenderCatalog(a.out, c)
				return nil
			}
			return fmt.Errorf("no %s catalog configured", t)
		},
	}
}
