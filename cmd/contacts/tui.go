package main

import (
	"github.com/spf13/cobra"

	"github.com/DeBrosOfficial/contacts/pkg/logging"
	"github.com/DeBrosOfficial/contacts/pkg/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the contact list screen",
	Long: `Open the interactive contact list: paginated, searchable and sortable,
with create, edit and delete. Logs go to the configured log file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		c, err := newClient()
		if err != nil {
			return err
		}
		pages, release, err := newPageCache(ctx)
		if err != nil {
			return err
		}
		defer release()

		logger.ComponentInfo(logging.ComponentTUI, "Starting contact screen")
		return tui.Run(ctx, c, pages, tui.Options{
			PageSize: cfg.API.PageSize,
			Logger:   logger.For(logging.ComponentTUI),
		})
	},
}
