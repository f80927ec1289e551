package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/foodfast-cli/internal/adapters/api"
	boardadapter "github.com/bnema/foodfast-cli/internal/adapters/render/board"
	"github.com/bnema/foodfast-cli/internal/adapters/stream"
)

func newAnnounceCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "announce",
		Short: "Create and follow restaurant announcements",
	}

	cmd.AddCommand(
		newAnnounceCreateCmd(app),
		newAnnounceListCmd(app),
		newAnnounceWatchCmd(app),
	)

	return cmd
}

func newAnnounceCreateCmd(app *app) *cobra.Command {
	var (
		title      string
		message    string
		restaurant string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Broadcast an announcement (employee)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireAuth(app); err != nil {
				return err
			}

			announcement, err := app.api.CreateAnnouncement(cmd.Context(), api.CreateAnnouncementArgs{
				Title:          title,
				Message:        message,
				RestaurantName: restaurant,
				CreatedBy:      app.state.User().DisplayName(),
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Announcement #%d published\n", announcement.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Announcement title (max 100 chars)")
	cmd.Flags().StringVar(&message, "message", "", "Announcement body (max 500 chars)")
	cmd.Flags().StringVar(&restaurant, "restaurant", "", "Restaurant name")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func newAnnounceListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List announcements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireAuth(app); err != nil {
				return err
			}

			announcements, err := app.api.Announcements(cmd.Context())
			if err != nil {
				return err
			}

			rendered, err := app.boardRenderer(nil, announcements, boardadapter.RenderOptions{Now: app.clock.Now()})
			if err != nil {
				return fmt.Errorf("render announcements: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}

func newAnnounceWatchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream announcements as they are published",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireAuth(app); err != nil {
				return err
			}

			subscription, err := stream.Subscribe(cmd.Context(), app.subscriber, stream.AnnouncementTopic(), streamStatePrinter(cmd))
			if err != nil {
				return err
			}
			defer subscription.Close()

			for announcement := range subscription.Events() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", announcement.Title, announcement.Message)
			}
			return subscription.Err()
		},
	}
}
