package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"storefront/internal/model"
	"storefront/internal/notify"
	"storefront/internal/service"
)

func newNotificationsCmd(a *app) *cobra.Command {
	n := &cobra.Command{
		Use:   "notifications",
		Short: "Order notifications",
	}

	var owner bool
	var date string
	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications grouped by day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var day time.Time
			if date != "" {
				d, err := time.ParseInLocation("2006-01-02", date, time.Local)
				if err != nil {
					return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
				}
				day = d
			}
			user := *a.user
			if owner {
				user.Role = service.RoleShopOwner
			}
			svc := service.NewNotificationService(a.backendFor, notify.NewFeed(0), nil, a.logger)
			res, err := svc.List(cmd.Context(), &user, day)
			if err != nil {
				return a.report(cmd, err)
			}
			printGroups(cmd.OutOrStdout(), res.Groups, res.Unread)
			return nil
		},
	}
	list.Flags().BoolVar(&owner, "owner", false, "shop owner notifications")
	list.Flags().StringVar(&date, "date", "", "only show this day (YYYY-MM-DD)")

	var watchOwner bool
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Poll for new notifications until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			interval := a.cfg.PollIntervalUser
			if watchOwner {
				interval = a.cfg.PollIntervalOwner
			}
			w := cmd.OutOrStdout()
			p := notify.NewPoller(a.client, watchOwner, interval, a.logger)
			last := -1
			p.OnChange(func(items []model.Notification, unread int) {
				if unread == last {
					return
				}
				last = unread
				fmt.Fprintf(w, "[%s] %d unread\n", time.Now().Format("15:04:05"), unread)
				for _, it := range items {
					if !it.Read {
						fmt.Fprintf(w, "  • %s\n", it.Message)
					}
				}
			})
			p.Run(cmd.Context())
			return nil
		},
	}
	watch.Flags().BoolVar(&watchOwner, "owner", false, "shop owner notifications")

	var markUnread, markOwner bool
	mark := &cobra.Command{
		Use:   "mark <notification-id>",
		Short: "Mark a notification as read (or unread)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user := *a.user
			if markOwner {
				user.Role = service.RoleShopOwner
			}
			svc := service.NewNotificationService(a.backendFor, notify.NewFeed(0), nil, a.logger)
			return a.report(cmd, svc.Mark(cmd.Context(), &user, args[0], !markUnread))
		},
	}
	mark.Flags().BoolVar(&markUnread, "unread", false, "mark as unread instead")
	mark.Flags().BoolVar(&markOwner, "owner", false, "shop owner notification")

	n.AddCommand(list, watch, mark)
	return n
}

func printGroups(w io.Writer, groups []notify.Group, unread int) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No notifications")
		return
	}
	fmt.Fprintf(w, "%d unread\n", unread)
	for _, g := range groups {
		fmt.Fprintf(w, "\n%s\n", g.Name)
		for _, it := range g.Items {
			mark := "•"
			if it.Read {
				mark = " "
			}
			text := it.Message
			if it.Title != "" {
				text = it.Title + ": " + it.Message
			}
			fmt.Fprintf(w, " %s %s  (%s)\n", mark, text, it.Timestamp.Local().Format("02 Jan 15:04"))
		}
	}
}
