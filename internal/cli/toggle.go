package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/autoproject/internal/settings"
)

var onlyActiveCmd = &cobra.Command{
	Use:       "only-active on|off",
	Short:     "Limit project folders to the active file's folder",
	Long:      `Toggle the onlyActive setting. When on, the project holds the first folders, the active file's folder and the last folders.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle(settings.KeyOnlyActive, args[0])
	},
}

var revealActiveFileCmd = &cobra.Command{
	Use:       "reveal-active-file on|off",
	Short:     "Reveal the active file in the tree view after each update",
	Long:      `Toggle the revealActiveFile setting.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle(settings.KeyRevealActiveFile, args[0])
	},
}

func runToggle(key settings.Key, value string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	if err := rt.settings.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if jsonOutput {
		return outputJSON(rt.settings.Get())
	}
	PrintSuccess(fmt.Sprintf("%s is %s", key, value))
	return nil
}
