package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ngo-portal/portal-backend/internal/bootstrap"
	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/notify"
)

func newEventsCmd() *cobra.Command {
	var (
		addr     string
		password string
		count    int
	)

	cmd := &cobra.Command{
		Use:   "events <workspace-id>",
		Short: "Follow the notifications a workspace publishes to Redis",
		Long: `Subscribe to a workspace's event channel and print each notification as it
arrives. Runs until interrupted, or until --count notifications were printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{Addr: addr, Password: password})
			if err != nil {
				return err
			}
			defer client.Close()

			channel := notify.EventChannel(args[0])
			sub := client.Subscribe(ctx, channel)
			defer sub.Close()
			if _, err := sub.Receive(ctx); err != nil {
				return fmt.Errorf("subscribe %s: %w", channel, err)
			}

			out := cmd.OutOrStdout()
			color.New(color.Faint).Fprintf(out, "following %s\n", channel)

			msgs := sub.Channel()
			for seen := 0; count <= 0 || seen < count; {
				select {
				case <-ctx.Done():
					return nil
				case msg, ok := <-msgs:
					if !ok {
						return nil
					}
					n, err := notify.DecodeEvent(msg)
					if err != nil {
						color.New(color.FgYellow).Fprintf(out, "skipped: %v\n", err)
						continue
					}
					printEvent(out, n)
					seen++
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "redis", "localhost:6379", "Redis address")
	cmd.Flags().StringVar(&password, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&count, "count", 0, "exit after this many notifications (0 follows forever)")
	return cmd
}

func printEvent(out io.Writer, n domain.Notification) {
	title := color.New(color.Bold)
	if n.Destructive() {
		title = color.New(color.FgRed, color.Bold)
	}
	at := "-"
	if !n.At.IsZero() {
		at = n.At.Format("15:04:05")
	}
	fmt.Fprintf(out, "%s ", at)
	if n.Screen != "" {
		fmt.Fprintf(out, "[%s] ", n.Screen)
	}
	title.Fprint(out, n.Title)
	if n.Description != "" {
		fmt.Fprintf(out, ": %s", n.Description)
	}
	fmt.Fprintln(out)
}
