package cmd

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bnema/foodfast-cli/internal/adapters/api"
	boardadapter "github.com/bnema/foodfast-cli/internal/adapters/render/board"
	"github.com/bnema/foodfast-cli/internal/adapters/stream"
	"github.com/bnema/foodfast-cli/internal/application"
	"github.com/bnema/foodfast-cli/internal/domain"
)

func newOrderCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place, list and track orders",
	}

	cmd.AddCommand(
		newOrderCreateCmd(app),
		newOrderListCmd(app),
		newOrderBoardCmd(app),
		newOrderStatusCmd(app),
		newOrderTrackCmd(app),
		newOrderWatchCmd(app),
		newOrderLocateCmd(app),
	)

	return cmd
}

func newOrderCreateCmd(app *app) *cobra.Command {
	var (
		items      []string
		address    string
		restaurant string
		total      float64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Place a new order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireAuth(app); err != nil {
				return err
			}
			if total <= 0 {
				return fmt.Errorf("order total must be greater than zero")
			}

			order, err := app.api.CreateOrder(cmd.Context(), api.CreateOrderArgs{
				CustomerID:      app.state.User().ID,
				Items:           items,
				DeliveryAddress: address,
				RestaurantName:  restaurant,
				TotalAmount:     total,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Order #%d placed (%s)\n", order.ID, order.Status)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&items, "item", nil, "Order item (repeatable)")
	cmd.Flags().StringVar(&address, "address", "", "Delivery address")
	cmd.Flags().StringVar(&restaurant, "restaurant", "", "Restaurant name")
	cmd.Flags().Float64Var(&total, "total", 0, "Order total")
	_ = cmd.MarkFlagRequired("item")
	_ = cmd.MarkFlagRequired("address")

	return cmd
}

func newOrderListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your orders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireAuth(app); err != nil {
				return err
			}

			orders, err := app.api.CustomerOrders(cmd.Context(), app.state.User().ID)
			if err != nil {
				return err
			}

			return writeBoard(cmd, app, orders, domain.RoleCustomer)
		},
	}
}

func newOrderBoardCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Show every open order (employee view)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireAuth(app); err != nil {
				return err
			}

			orders, err := app.api.AllOrders(cmd.Context())
			if err != nil {
				return err
			}

			return writeBoard(cmd, app, orders, domain.RoleEmployee)
		},
	}
}

func newOrderStatusCmd(app *app) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "status <order-id>",
		Short: "Advance an order's status (employee)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(app); err != nil {
				return err
			}

			orderID, err := parseOrderID(args[0])
			if err != nil {
				return err
			}
			next := domain.OrderStatus(status)
			if !next.Valid() {
				return fmt.Errorf("unknown order status %q", status)
			}

			order, err := app.api.UpdateOrderStatus(cmd.Context(), orderID, next)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Order #%d is now %s\n", order.ID, order.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "set", "", "New status (confirmed, preparing, ready, picked_up, delivered, cancelled)")
	_ = cmd.MarkFlagRequired("set")

	return cmd
}

func newOrderTrackCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "track <order-id>",
		Short: "Follow an order's status until delivery",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(app); err != nil {
				return err
			}

			orderID, err := parseOrderID(args[0])
			if err != nil {
				return err
			}

			events := application.NewTracker(app.api).Run(cmd.Context(), orderID)

			// Spinner until the first answer, then one line per change.
			var first application.TrackEvent
			gotFirst := false
			err = runWaitSpinner(cmd.Context(), cmd.OutOrStdout(), fmt.Sprintf("Tracking order #%d...", orderID), func(context.Context) error {
				event, ok := <-events
				if !ok {
					return nil
				}
				first = event
				gotFirst = true
				return event.Err
			})
			if err != nil {
				return err
			}
			if !gotFirst {
				return nil
			}

			printTrackEvent(cmd, first)
			for event := range events {
				if event.Err != nil {
					return event.Err
				}
				printTrackEvent(cmd, event)
			}
			return nil
		},
	}
}

func printTrackEvent(cmd *cobra.Command, event application.TrackEvent) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Order #%d: %s\n", event.Order.ID, event.Order.Status)
	if event.Order.Status.Terminal() {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Tracking finished.")
	}
}

func newOrderWatchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream order updates onto the board (employee)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireAuth(app); err != nil {
				return err
			}

			orders, err := app.api.AllOrders(cmd.Context())
			if err != nil {
				return err
			}
			if err := writeBoard(cmd, app, orders, domain.RoleEmployee); err != nil {
				return err
			}

			subscription, err := stream.Subscribe(cmd.Context(), app.subscriber, stream.OrderFeedTopic(), streamStatePrinter(cmd))
			if err != nil {
				return err
			}
			defer subscription.Close()

			for order := range subscription.Events() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Order #%d -> %s\n", order.ID, order.Status)
			}
			return subscription.Err()
		},
	}
}

func newOrderLocateCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "locate <order-id>",
		Short: "Stream the delivery driver's position for an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(app); err != nil {
				return err
			}

			orderID, err := parseOrderID(args[0])
			if err != nil {
				return err
			}

			topic := stream.OrderLocationTopic(orderID, app.state.User().ID)
			subscription, err := stream.Subscribe(cmd.Context(), app.subscriber, topic, streamStatePrinter(cmd))
			if err != nil {
				return err
			}
			defer subscription.Close()

			for loc := range subscription.Events() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "driver %d at %.5f,%.5f\n", loc.DriverID, loc.Latitude, loc.Longitude)
			}
			return subscription.Err()
		},
	}
}

func writeBoard(cmd *cobra.Command, app *app, orders []domain.Order, viewer domain.Role) error {
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	rendered, err := app.boardRenderer(orders, nil, boardadapter.RenderOptions{
		Now:    app.clock.Now(),
		Viewer: viewer,
	})
	if err != nil {
		return fmt.Errorf("render board: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func parseOrderID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid order id %q", raw)
	}
	return id, nil
}

func streamStatePrinter(cmd *cobra.Command) func(stream.ConnState) {
	return func(state stream.ConnState) {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "stream: %s\n", state)
	}
}
