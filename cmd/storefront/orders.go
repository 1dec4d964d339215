package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"storefront/internal/service"
	"storefront/internal/timeline"
)

var stateMarks = map[timeline.State]string{
	timeline.StateCompleted: "[x]",
	timeline.StateActive:    "[>]",
	timeline.StateUpcoming:  "[ ]",
	timeline.StateCancelled: "[!]",
}

func newTrackCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "track <order-id>",
		Short: "Show the tracking timeline of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := service.NewTrackingService(a.backendFor, a.logger).Track(cmd.Context(), a.user, args[0])
			if err != nil {
				return a.report(cmd, err)
			}
			printTracking(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func printTracking(w io.Writer, v *service.TrackingView) {
	fmt.Fprintf(w, "%s  %s\n", v.Header, v.Badge)
	if v.PlacedOn != "" {
		fmt.Fprintf(w, "Placed on %s\n", v.PlacedOn)
	}
	fmt.Fprintln(w)
	for _, s := range v.Segments {
		fmt.Fprintf(w, "  %s %-15s %s\n", stateMarks[s.State], s.Label, s.Description)
	}
	fmt.Fprintln(w)
	for _, it := range v.Items {
		fmt.Fprintf(w, "  %-30s x%-3d %s\n", it.Title, it.Quantity, it.LineTotal)
	}
	fmt.Fprintf(w, "  Subtotal %s  Delivery %s  Total %s\n", v.Subtotal, v.DeliveryFee, v.Total)
	if v.AddressLine != "" {
		fmt.Fprintf(w, "  Deliver to: %s\n", v.AddressLine)
	}
	if v.DistanceKm != nil {
		fmt.Fprintf(w, "  Shop is %.2f km away\n", *v.DistanceKm)
	}
}

func newOrdersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List your orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := service.NewTrackingService(a.backendFor, a.logger).ListOrders(cmd.Context(), a.user)
			if err != nil {
				return a.report(cmd, err)
			}
			w := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(w, "No orders yet.")
				return nil
			}
			for _, r := range rows {
				fmt.Fprintf(w, "%-20s %-22s %-14s %s\n", r.Header, r.PlacedOn, r.Total, r.Badge)
			}
			return nil
		},
	}
}

func newOwnerCmd(a *app) *cobra.Command {
	owner := &cobra.Command{
		Use:   "owner",
		Short: "Shop owner order management",
	}

	owner.AddCommand(&cobra.Command{
		Use:   "show <order-id>",
		Short: "Show an order and the stages it can move to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := service.NewOwnerService(a.backendFor, a.logger).GetOrder(cmd.Context(), a.user, args[0])
			if err != nil {
				return a.report(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\nNext: %s\n", o.ID, timeline.Badge(o.Status), joinStages(o.NextStatuses))
			return nil
		},
	})

	var reason string
	status := &cobra.Command{
		Use:   "status <order-id> <stage>",
		Short: "Move an order to its next stage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := service.NewOwnerService(a.backendFor, a.logger).UpdateStatus(cmd.Context(), a.user, args[0], args[1], reason)
			if err != nil {
				return a.report(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s is now %s. Next: %s\n", o.ID, o.Status, joinStages(o.NextStatuses))
			return nil
		},
	}
	status.Flags().StringVar(&reason, "reason", "", "reason shown to the buyer (optional)")
	owner.AddCommand(status)

	return owner
}

func joinStages[T ~string](stages []T) string {
	if len(stages) == 0 {
		return "none"
	}
	parts := make([]string, len(stages))
	for i, s := range stages {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
