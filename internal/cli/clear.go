package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/autoproject/internal/engine"
	"github.com/danieljhkim/autoproject/internal/settings"
)

var clearFirstFoldersCmd = &cobra.Command{
	Use:   "clear-first-folders",
	Short: "Remove all configured first folders",
	Long: `Empty the firstFolders setting.

A running session picks up the change immediately.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClearFolders(settings.KeyFirstFolders)
	},
}

var clearLastFoldersCmd = &cobra.Command{
	Use:   "clear-last-folders",
	Short: "Remove all configured last folders",
	Long: `Empty the lastFolders setting.

A running session picks up the change immediately.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClearFolders(settings.KeyLastFolders)
	},
}

func runClearFolders(key settings.Key) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	if err := engine.ClearFolders(rt.settings, key); err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(rt.settings.Get())
	}
	PrintSuccess("Cleared " + string(key))
	return nil
}
