// Package todo_tools provides MCP tools for managing Microsoft To Do.
//
// This package implements MCP (Model Context Protocol) tools that wrap the
// Microsoft To Do client functionality, providing task and task list
// management capabilities for AI assistants.
//
// # Available Tools
//
// Task List Management:
//   - todo_list_task_lists: List all task lists
//   - todo_get_task_list: Get details of a specific task list
//   - todo_create_task_list: Create a new task list
//   - todo_update_task_list: Update a task list's display name
//   - todo_delete_task_list: Delete a task list
//
// Task Management:
//   - todo_list_tasks: List tasks in a task list (with status filter)
//   - todo_get_tasks: Get details of one or more tasks
//   - todo_create_tasks: Create one or more tasks
//   - todo_update_task: Update a task
//   - todo_delete_tasks: Delete one or more tasks
//   - todo_complete_tasks: Mark one or more tasks as completed
//
// Mutating tools (update, delete, complete) are only registered when the
// server runs with write access enabled.
//
// # Multi-Account Support
//
// All tools support an optional 'account' parameter to specify which
// Microsoft account to use. If not provided, the 'default' account is used.
//
// # Authentication
//
// Tokens are loaded from the file system (~/.cache/todofewer/). If no valid
// token exists, tools return an error with authentication instructions.
package todo_tools
