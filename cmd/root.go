package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ff",
		Short:         "FoodFast CLI (ff): order food, track deliveries, chat with support",
		Long:          "ff (FoodFast CLI) talks to a FoodFast backend: manage your account, place and track orders, follow announcement and order feeds, and run the realtime support chat from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newAccountCmd(app),
		newOrderCmd(app),
		newAnnounceCmd(app),
		newChatCmd(app),
		newDriveCmd(app),
	)

	return rootCmd
}
