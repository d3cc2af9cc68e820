// Package cmd implements the command-line interface for todofewer.
//
// This package provides the following commands:
//   - auth: Perform the OAuth consent flow and store tokens per account
//   - lists: Show, create, rename and delete task lists
//   - tasks: Show, create, complete and delete tasks
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The lists command is the default command when no subcommand is specified.
package cmd
