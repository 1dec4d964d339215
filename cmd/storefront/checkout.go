package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"storefront/internal/checkout"
	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/summary"
)

func newCheckoutCmd(a *app) *cobra.Command {
	co := &cobra.Command{
		Use:   "checkout",
		Short: "Review the cart and place an order",
	}

	var claim bool
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the checkout summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := summary.NewLoader(a.client, a.logger)
			v, err := loader.ToggleClaim(cmd.Context(), claim)
			printView(cmd.OutOrStdout(), v)
			return a.report(cmd, err)
		},
	}
	summaryCmd.Flags().BoolVar(&claim, "claim-new-user", false, "apply the new user offer")

	var qtyClaim bool
	qtyCmd := &cobra.Command{
		Use:   "qty <product-id> <quantity>",
		Short: "Change the quantity of a cart line (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var qty int
			if _, err := fmt.Sscan(args[1], &qty); err != nil {
				return fmt.Errorf("quantity must be a number: %w", err)
			}
			loader := summary.NewLoader(a.client, a.logger)
			loader.SetClaim(qtyClaim)
			v, err := loader.SetQuantity(cmd.Context(), args[0], qty)
			if err != nil {
				return a.report(cmd, err)
			}
			printView(cmd.OutOrStdout(), v)
			return nil
		},
	}
	qtyCmd.Flags().BoolVar(&qtyClaim, "claim-new-user", false, "apply the new user offer")

	var method, note string
	var placeClaim bool
	placeCmd := &cobra.Command{
		Use:   "place",
		Short: "Place the order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := &stdinPrompt{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
			flow := checkout.NewFlow(a.client, prompt, a.logger)
			flow.OnTransition(func(_, to checkout.State) {
				if to == checkout.StatePlacing {
					c := flow.Controls()[model.PaymentMethod(method)]
					fmt.Fprintln(cmd.ErrOrStderr(), c.Label)
				}
			})

			res, err := flow.Place(cmd.Context(), checkout.PlaceRequest{
				Method:       model.PaymentMethod(method),
				Note:         note,
				ClaimNewUser: placeClaim,
			})
			if err != nil {
				if res.Message != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), res.Message)
					return errReported
				}
				return err
			}

			w := cmd.OutOrStdout()
			switch res.State {
			case checkout.StateSuccess:
				fmt.Fprintf(w, "Order %s placed. Track it at %s\n", res.OrderNumber, res.Redirect)
				if res.Payment != nil {
					fmt.Fprintf(w, "Complete payment of %s (%d paise) with key %s, gateway order %s\n",
						pricing.FormatINR(res.Payment.Amount), res.AmountPaise, res.Payment.Key, res.Payment.GatewayOrderID)
				}
				return nil
			default:
				fmt.Fprintln(cmd.ErrOrStderr(), res.Message)
				return errReported
			}
		},
	}
	placeCmd.Flags().StringVar(&method, "method", string(model.PaymentCOD), "cod or online")
	placeCmd.Flags().StringVar(&note, "note", "", "note for the shop")
	placeCmd.Flags().BoolVar(&placeClaim, "claim-new-user", false, "apply the new user offer")

	co.AddCommand(summaryCmd, qtyCmd, placeCmd)
	return co
}

func printView(w io.Writer, v pricing.View) {
	if !v.Available {
		fmt.Fprintln(w, v.Message)
		return
	}
	for _, it := range v.Items {
		fmt.Fprintf(w, "  %-30s x%-3d %s\n", it.Title, it.Quantity, pricing.FormatINR(it.LineTotal()))
	}
	fmt.Fprintf(w, "  Subtotal  %s\n", pricing.FormatINR(v.Subtotal))
	fmt.Fprintf(w, "  Delivery  %s", pricing.FormatINR(v.Delivery.Fee))
	if v.Delivery.Breakdown != "" {
		fmt.Fprintf(w, " (%s)", v.Delivery.Breakdown)
	}
	fmt.Fprintln(w)
	if v.Discount.Visible {
		fmt.Fprintf(w, "  Discount  -%s [%s] %s\n", pricing.FormatINR(v.Discount.Amount), v.Discount.Code, v.Discount.Message)
	}
	if v.Offer.Visible {
		fmt.Fprintf(w, "  %s\n", v.Offer.Message)
	}
	fmt.Fprintf(w, "  Total     %s\n", pricing.FormatINR(v.Total))
	if v.Message != "" {
		fmt.Fprintln(w, v.Message)
	}
}

// stdinPrompt es el modal de perfil en la terminal.
type stdinPrompt struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *stdinPrompt) CompleteProfile(ctx context.Context) (model.Profile, error) {
	fmt.Fprintln(p.out, "Please complete your delivery profile to continue.")

	var prof model.Profile
	fields := []struct {
		label string
		dst   *string
	}{
		{"Name", &prof.Name},
		{"Phone", &prof.Phone},
		{"Address", &prof.Address},
		{"Pincode", &prof.Pincode},
		{"City", &prof.City},
		{"State", &prof.State},
	}
	for _, f := range fields {
		fmt.Fprintf(p.out, "%s: ", f.label)
		line, err := p.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return model.Profile{}, checkout.ErrProfileDeferred
		}
		*f.dst = strings.TrimSpace(line)
	}
	if err := checkout.ValidateProfile(prof); err != nil {
		fmt.Fprintln(p.out, err)
	}
	return prof, nil
}
