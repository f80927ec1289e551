package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/foodfast-cli/internal/application"
	"github.com/bnema/foodfast-cli/internal/domain"
)

func newDriveCmd(app *app) *cobra.Command {
	var (
		driverID int64
		orderID  int64
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Simulate a delivery driver reporting positions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireAuth(app); err != nil {
				return err
			}

			if err := app.api.SetDriverOnline(cmd.Context(), driverID, true, orderID); err != nil {
				return err
			}
			defer func() {
				// The command context is usually cancelled by the time we
				// report going offline.
				offCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = app.api.SetDriverOnline(offCtx, driverID, false, 0)
			}()

			sim := application.NewDriverSimulator(app.api, driverID, orderID)
			if interval > 0 {
				sim.Interval = interval
			}
			sim.OnPost = func(loc domain.DriverLocation) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "driver %d at %.5f,%.5f\n", loc.DriverID, loc.Latitude, loc.Longitude)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Driving for order #%d, ctrl-c to stop\n", orderID)
			return sim.Run(cmd.Context())
		},
	}

	cmd.Flags().Int64Var(&driverID, "driver", 0, "Driver id")
	cmd.Flags().Int64Var(&orderID, "order", 0, "Order being delivered")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Report interval (default 15s)")
	_ = cmd.MarkFlagRequired("driver")
	_ = cmd.MarkFlagRequired("order")

	return cmd
}
