package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var debugMode bool

// rootCmd represents the base command for the todofewer application
var rootCmd = &cobra.Command{
	Use:   "todofewer",
	Short: "Manage Microsoft To Do task lists and tasks",
	Long: `todofewer is a client for Microsoft To Do built on the Microsoft Graph API.

It can run as:
  - A standalone CLI tool for listing and managing tasks (default)
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Logs go to stderr; stdout is reserved for command output and,
		// in serve mode, the MCP transport.
		level := slog.LevelInfo
		if debugMode {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "todofewer version %s\n" .Version}}`)

	// If no subcommand is provided, list the task lists by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "lists")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newListsCmd())
	rootCmd.AddCommand(newTasksCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
