package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/autoproject/internal/folders"
	"github.com/danieljhkim/autoproject/internal/settings"
)

var statusSession string

// statusResult is the --json form of the status command.
type statusResult struct {
	Session        string            `json:"session"`
	SettingsFile   string            `json:"settingsFile"`
	Settings       settings.Settings `json:"settings"`
	FirstFolders   []string          `json:"firstFolders"`
	LastFolders    []string          `json:"lastFolders"`
	DroppedFolders []string          `json:"droppedFolders"`
	ProjectPaths   []string          `json:"projectPaths"`
	UpdatedAt      *time.Time        `json:"updatedAt,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show settings and the project folders of a session",
	Long: `Display the settings, the first and last folders that are in effect
(configured entries that are not directories are dropped) and the project
folders a session last committed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		s := rt.settings.Get()
		set := folders.New(rt.fs, rt.logger)
		set.Refresh(s.FirstFolders, s.LastFolders)

		result := statusResult{
			Session:        rt.sessionName(statusSession),
			SettingsFile:   rt.settings.Path(),
			Settings:       s,
			FirstFolders:   nonNil(set.First()),
			LastFolders:    nonNil(set.Last()),
			DroppedFolders: nonNil(append(set.Invalid(s.FirstFolders), set.Invalid(s.LastFolders)...)),
			ProjectPaths:   []string{},
		}

		st, err := rt.states.LoadProject(result.Session)
		switch {
		case err == nil:
			result.ProjectPaths = nonNil(st.Paths)
			result.UpdatedAt = &st.UpdatedAt
		case !errors.Is(err, os.ErrNotExist):
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection("Settings")
		PrintLabelValue("File", result.SettingsFile)
		PrintToggle("Only active", s.OnlyActive)
		PrintToggle("Reveal active file", s.RevealActiveFile)

		PrintSection("First Folders")
		PrintFolders(result.FirstFolders, "No first folders")

		PrintSection("Last Folders")
		PrintFolders(result.LastFolders, "No last folders")

		if len(result.DroppedFolders) > 0 {
			fmt.Println()
			PrintWarning(fmt.Sprintf("Ignoring %s that are not directories:", countNoun(len(result.DroppedFolders), "folder", "folders")))
			PrintList(result.DroppedFolders, 1)
		}

		PrintSection(fmt.Sprintf("Project (session %s)", result.Session))
		if result.UpdatedAt == nil {
			PrintEmptyState("No project state; the session has not run yet")
			return nil
		}
		PrintFolders(result.ProjectPaths, "No project folders")
		fmt.Println()
		PrintLabelValue("Updated", result.UpdatedAt.Local().Format(time.RFC1123))
		return nil
	},
}

func nonNil(paths []string) []string {
	if paths == nil {
		return []string{}
	}
	return paths
}

func init() {
	statusCmd.Flags().StringVar(&statusSession, "session", "", "Session to show (default $AUTOPROJECT_SESSION)")
}
