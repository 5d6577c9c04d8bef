package motorctl

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	service "github.com/okian/liftmotor/internal/app"
	"github.com/okian/liftmotor/internal/domain/requirement"
	"github.com/okian/liftmotor/internal/domain/types"
)

type selectFlags struct {
	floors     int
	passengers int
	loadKG     float64
	speed      float64
	motorType  string
	useType    string
	roping     string
	policy     string
	explain    bool
	server     string
	timeout    time.Duration
}

func (f selectFlags) query() requirement.Query {
	return requirement.Query{
		MotorType:    requirement.MotorChoice(f.motorType),
		UseType:      requirement.UseType(f.useType),
		Passengers:   f.passengers,
		LoadKG:       f.loadKG,
		Floors:       f.floors,
		SpeedMPS:     f.speed,
		RopingFilter: requirement.RopingFilter(f.roping),
		Policy:       f.policy,
		Explain:      f.explain,
	}
}

func newSelectCommand(a *app) *cobra.Command {
	var f selectFlags

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Find motors that satisfy a building's requirement",
		Long: `Derives the required capacity and travel height from the building
parameters and lists the qualifying motors of each catalog.

Without --server the catalogs are read from local files; with it the query
is sent to a running service.`,
		Example: `  motorctl select --floors 5 --passengers 10 --speed 1.0
  motorctl select --floors 8 --use Goods --load 1600 --type Geared --explain
  motorctl select --floors 5 --passengers 10 --server http://localhost:9080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.runSelect(cmd.Context(), f)
			if err != nil {
				return err
			}
			Render(a.out, resp)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&f.floors, "floors", 0, "number of floors served (>= 1)")
	fl.IntVar(&f.passengers, "passengers", 0, "passenger count for Passenger use (>= 1)")
	fl.Float64Var(&f.loadKG, "load", 0, "load in kg for Goods use")
	fl.Float64Var(&f.speed, "speed", requirement.DefaultSpeedMPS, "speed in m/s: 0.5, 0.63, 0.67, 0.81 or 1.0")
	fl.StringVar(&f.motorType, "type", string(requirement.MotorBoth), "motor type: Both, Gearless or Geared")
	fl.StringVar(&f.useType, "use", string(requirement.UsePassenger), "use type: Passenger or Goods")
	fl.StringVar(&f.roping, "roping", string(requirement.RopingAny), "exact roping filter: Any, 1:1 or 2:1")
	fl.StringVar(&f.policy, "policy", "", "capacity policy: effective-capacity or exact-roping (default from config)")
	fl.BoolVar(&f.explain, "explain", false, "list rejected motors with the checks they failed")
	fl.StringVar(&f.server, "server", "", "base URL of a running service")
	fl.DurationVar(&f.timeout, "timeout", 10*time.Second, "request timeout with --server")
	_ = cmd.MarkFlagRequired("floors")

	return cmd
}

func (a *app) runSelect(ctx context.Context, f selectFlags) (types.Response, error) {
	q := f.query()
	if f.server != "" {
		return NewClient(f.server, f.timeout).Select(ctx, q)
	}

	opts := append(service.OptionsFromConfig(a.cfg), service.WithLogger(a.log))
	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return types.Response{}, err
	}
	defer svc.Stop()
	return svc.Select(ctx, q)
}
