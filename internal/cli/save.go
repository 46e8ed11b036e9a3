package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/autoproject/internal/engine"
	"github.com/danieljhkim/autoproject/internal/settings"
)

var saveSession string

var saveFirstFoldersCmd = &cobra.Command{
	Use:   "save-project-as-first-folders",
	Short: "Store the current project folders as first folders",
	Long: `Replace the firstFolders setting with the project folders of a session.

The project folders are read from the state the session last persisted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSaveFolders(settings.KeyFirstFolders)
	},
}

var saveLastFoldersCmd = &cobra.Command{
	Use:   "save-project-as-last-folders",
	Short: "Store the current project folders as last folders",
	Long: `Replace the lastFolders setting with the project folders of a session.

The project folders are read from the state the session last persisted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSaveFolders(settings.KeyLastFolders)
	},
}

func runSaveFolders(key settings.Key) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	session := rt.sessionName(saveSession)
	st, err := rt.loadProject(session)
	if err != nil {
		return err
	}

	if err := engine.SaveProjectAsFolders(rt.settings, savedProject{state: st}, key); err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(rt.settings.Get())
	}
	PrintSuccess(fmt.Sprintf("Saved %s as %s", countNoun(len(st.Paths), "folder", "folders"), key))
	PrintList(st.Paths, 1)
	return nil
}

func init() {
	saveFirstFoldersCmd.Flags().StringVar(&saveSession, "session", "", "Session to read project folders from (default $AUTOPROJECT_SESSION)")
	saveLastFoldersCmd.Flags().StringVar(&saveSession, "session", "", "Session to read project folders from (default $AUTOPROJECT_SESSION)")
}
