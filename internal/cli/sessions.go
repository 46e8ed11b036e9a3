package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// sessionsCmd lists sessions with persisted project state.
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List sessions with persisted project state",
	Long:  `Display every session that has committed project folders.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		states, err := rt.states.ListProjects()
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(states)
		}

		PrintSection("Sessions")
		if len(states) == 0 {
			PrintEmptyState("No sessions found")
			return nil
		}

		rows := make([][]string, 0, len(states))
		for _, st := range states {
			rows = append(rows, []string{
				st.Session,
				strconv.Itoa(len(st.Paths)),
				st.UpdatedAt.Local().Format(time.DateTime),
			})
		}
		PrintTable([]string{"Session", "Folders", "Updated"}, rows)
		return nil
	},
}

// sessionsRmCmd deletes the persisted state of a session.
var sessionsRmCmd = &cobra.Command{
	Use:   "rm <session>",
	Short: "Delete the persisted state of a session",
	Long: `Delete the project state a session persisted.

This does not touch the editor; a running session writes its state again on
the next project update.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session := args[0]

		rt, err := newRuntime()
		if err != nil {
			return err
		}

		if _, err := rt.states.LoadProject(session); errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("session %q not found", session)
		}
		if err := rt.states.DeleteProject(session); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]string{"deleted": session})
		}
		PrintSuccess(fmt.Sprintf("Deleted session state: %s", session))
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsRmCmd)
}
