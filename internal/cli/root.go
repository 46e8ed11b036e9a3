package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// --json, shared by every command
	jsonOutput bool

	groupTitleColor   = color.New(color.FgCyan, color.Bold)
	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

// rootCmd is the root command for autoproject.
var rootCmd = &cobra.Command{
	Use:     "autoproject",
	Version: "dev",
	Short:   "Keep an editor's project folders in sync with its open files",
	Long: `autoproject keeps the root folders of an editor project in sync with the
directories of the files you have open.

Folders of open files (or their git working directory) are added as you open
them and removed as you close them, bracketed by configured first and last
folders that are always present.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// commandGroups lists the help sections in display order.
var commandGroups = []struct {
	id       string
	title    string
	commands func() []*cobra.Command
}{
	{"session", "Session:", func() []*cobra.Command {
		return []*cobra.Command{runCmd, statusCmd, sessionsCmd}
	}},
	{"project-folders", "Project Folders:", func() []*cobra.Command {
		return []*cobra.Command{clearFirstFoldersCmd, clearLastFoldersCmd, saveFirstFoldersCmd, saveLastFoldersCmd}
	}},
	{"settings", "Settings:", func() []*cobra.Command {
		return []*cobra.Command{onlyActiveCmd, revealActiveFileCmd}
	}},
	{"cli-tooling", "CLI & Tooling:", func() []*cobra.Command {
		return []*cobra.Command{versionCmd(), completionCmd()}
	}},
}

// SetVersion sets the version reported by --version and the version command.
// An empty v keeps the current version.
func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// helpFunc renders help with colored, grouped command listings.
func helpFunc(cmd *cobra.Command, args []string) {
	var help strings.Builder

	if cmd.Long != "" {
		help.WriteString(cmd.Long)
		help.WriteString("\n\n")
	}

	fmt.Fprintf(&help, "%s\n  %s\n\n", sectionTitleColor.Sprint("Usage:"), cmd.UseLine())

	writeCommands := func(title string, include func(*cobra.Command) bool) {
		var lines []string
		for _, c := range cmd.Commands() {
			if !c.Hidden && include(c) {
				lines = append(lines, fmt.Sprintf("  %-30s %s\n", c.Name(), c.Short))
			}
		}
		if len(lines) == 0 {
			return
		}
		help.WriteString(title)
		help.WriteString("\n")
		help.WriteString(strings.Join(lines, ""))
		help.WriteString("\n")
	}

	for _, group := range cmd.Groups() {
		id := group.ID
		writeCommands(groupTitleColor.Sprint(group.Title), func(c *cobra.Command) bool { return c.GroupID == id })
	}
	writeCommands(sectionTitleColor.Sprint("Additional Commands:"), func(c *cobra.Command) bool { return c.GroupID == "" })

	if cmd.HasAvailableLocalFlags() || cmd.HasAvailablePersistentFlags() {
		fmt.Fprintf(&help, "%s\n%s%s\n", sectionTitleColor.Sprint("Flags:"),
			cmd.LocalFlags().FlagUsages(), cmd.InheritedFlags().FlagUsages())
	}

	fmt.Fprintf(&help, "Use \"%s [command] --help\" for more information about a command.\n", cmd.CommandPath())
	fmt.Fprint(cmd.OutOrStdout(), help.String())
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the autoproject CLI version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(os.Stdout, rootCmd.Version)
		},
	}
}

func completionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate the autocompletion script for the specified shell",
		Long: `Generate the autocompletion script for autoproject for the specified shell.
See each sub-command's help for details on how to use the generated script.`,
	}

	shells := []struct {
		name string
		gen  func(io.Writer) error
	}{
		{"bash", rootCmd.GenBashCompletion},
		{"zsh", rootCmd.GenZshCompletion},
		{"fish", func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) }},
		{"powershell", rootCmd.GenPowerShellCompletionWithDesc},
	}
	for _, shell := range shells {
		gen := shell.gen
		cmd.AddCommand(&cobra.Command{
			Use:                   shell.name,
			Short:                 "Generate the autocompletion script for " + shell.name,
			Args:                  cobra.NoArgs,
			DisableFlagsInUseLine: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return gen(os.Stdout)
			},
		})
	}
	return cmd
}

func init() {
	rootCmd.SetHelpFunc(helpFunc)
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	for _, group := range commandGroups {
		rootCmd.AddGroup(&cobra.Group{ID: group.id, Title: group.title})
		for _, c := range group.commands() {
			c.GroupID = group.id
			rootCmd.AddCommand(c)
		}
	}

	rootCmd.SetHelpCommand(&cobra.Command{
		Use:     "help [command]",
		Short:   "Help about any command",
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			target, _, err := cmd.Root().Find(args)
			if err != nil || target == nil {
				target = cmd.Root()
			}
			_ = target.Help()
		},
	})
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
