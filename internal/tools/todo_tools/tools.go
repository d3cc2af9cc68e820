package todo_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/todofewer/internal/instrumentation"
	"github.com/teemow/todofewer/internal/msauth"
	"github.com/teemow/todofewer/internal/server"
	"github.com/teemow/todofewer/internal/todo"
	"github.com/teemow/todofewer/internal/tools/batch"
	"github.com/teemow/todofewer/internal/tools/common"
)

// getAccountFromArgs extracts the account name from request arguments, defaulting to "default"
func getAccountFromArgs(args map[string]interface{}) string {
	account := msauth.DefaultAccount
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		account = accountVal
	}
	return account
}

// getTodoClient retrieves or creates a To Do client for the specified account
func getTodoClient(_ context.Context, account string, sc *server.ServerContext) (*todo.Client, error) {
	client := sc.TodoClientForAccount(account)
	if client == nil {
		// Check if token exists before trying to create client
		if !todo.HasTokenForAccount(account) {
			return nil, fmt.Errorf(`Microsoft OAuth token not found for account %q. To authorize access:

1. Run 'todofewer auth url' and visit the printed URL in your browser
2. Sign in with your Microsoft account and grant access to Microsoft To Do
3. Copy the full redirect URL from the browser address bar
4. Run 'todofewer auth login --account %s' and paste the redirect URL

Note: You only need to authorize once. The tokens will be automatically refreshed.`, account, account)
		}

		return nil, fmt.Errorf("failed to create To Do client for account %s", account)
	}
	return client, nil
}

// parseLimit extracts an optional integer limit argument. Zero means no limit.
func parseLimit(args map[string]interface{}, key string) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return 0
}

// resolveListLimit extracts the limit argument for listing task lists.
// An omitted or non-positive limit ends up at todo.DefaultListLimit: the
// limit is forwarded as-is and the client maps anything not positive to
// the default.
func resolveListLimit(args map[string]interface{}) int {
	if _, ok := args["limit"]; ok {
		return parseLimit(args, "limit")
	}
	return todo.DefaultListLimit
}

// parseFilter maps the optional filter argument onto a status filter.
func parseFilter(args map[string]interface{}) todo.StatusFilter {
	switch v, _ := args["filter"].(string); v {
	case "completed":
		return todo.FilterCompleted
	case "open", "notCompleted":
		return todo.FilterNotCompleted
	default:
		return todo.FilterAll
	}
}

// RegisterTodoTools registers all To Do related tools with the MCP server
func RegisterTodoTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Register task list tools (some operations require !readOnly)
	if err := registerTaskListTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register task list tools: %w", err)
	}

	// Register task tools (some operations require !readOnly)
	if err := registerTaskTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register task tools: %w", err)
	}

	return nil
}

// registerTaskListTools registers task list management tools
func registerTaskListTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List task lists tool (read-only, always available)
	listTaskListsTool := mcp.NewTool("todo_list_task_lists",
		mcp.WithDescription("List all task lists for the authenticated user"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of task lists to return (defaults to 99 when omitted or not positive)"),
		),
	)

	s.AddTool(listTaskListsTool, common.InstrumentedToolHandlerWithOperation("todo_list_task_lists", instrumentation.ResourceLists, instrumentation.OperationList, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		account := getAccountFromArgs(args)

		client, err := getTodoClient(ctx, account, sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		lists, err := client.ListTaskLists(ctx, resolveListLimit(args))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list task lists: %v", err)), nil
		}

		result, _ := json.MarshalIndent(lists, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	// Get task list tool
	getTaskListTool := mcp.NewTool("todo_get_task_list",
		mcp.WithDescription("Get details of a specific task list"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("taskListId",
			mcp.Required(),
			mcp.Description("The ID of the task list to retrieve"),
		),
	)

	s.AddTool(getTaskListTool, common.InstrumentedToolHandlerWithOperation("todo_get_task_list", instrumentation.ResourceLists, instrumentation.OperationGet, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		account := getAccountFromArgs(args)

		taskListID, ok := args["taskListId"].(string)
		if !ok || taskListID == "" {
			return mcp.NewToolResultError("taskListId is required"), nil
		}

		client, err := getTodoClient(ctx, account, sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		taskList, err := client.GetTaskList(ctx, taskListID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get task list: %v", err)), nil
		}

		result, _ := json.MarshalIndent(taskList, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	// Create task list tool
	createTaskListTool := mcp.NewTool("todo_create_task_list",
		mcp.WithDescription("Create a new task list"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The display name of the new task list"),
		),
	)

	s.AddTool(createTaskListTool, common.InstrumentedToolHandlerWithOperation("todo_create_task_list", instrumentation.ResourceLists, instrumentation.OperationCreate, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		account := getAccountFromArgs(args)

		name, ok := args["name"].(string)
		if !ok || name == "" {
			return mcp.NewToolResultError("name is required"), nil
		}

		client, err := getTodoClient(ctx, account, sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		taskList, err := client.CreateTaskList(ctx, name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create task list: %v", err)), nil
		}

		result, _ := json.MarshalIndent(taskList, "", "  ")
		return mcp.NewToolResultText(fmt.Sprintf("Task list created successfully:\n%s", string(result))), nil
	}))

	// Register update/delete task list tools only if not in read-only mode
	if !readOnly {
		// Update task list tool
		updateTaskListTool := mcp.NewTool("todo_update_task_list",
			mcp.WithDescription("Update a task list's display name"),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
			),
			mcp.WithString("taskListId",
				mcp.Required(),
				mcp.Description("The ID of the task list to update"),
			),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("The new display name for the task list"),
			),
		)

		s.AddTool(updateTaskListTool, common.InstrumentedToolHandlerWithOperation("todo_update_task_list", instrumentation.ResourceLists, instrumentation.OperationUpdate, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			account := getAccountFromArgs(args)

			taskListID, ok := args["taskListId"].(string)
			if !ok || taskListID == "" {
				return mcp.NewToolResultError("taskListId is required"), nil
			}

			name, ok := args["name"].(string)
			if !ok || name == "" {
				return mcp.NewToolResultError("name is required"), nil
			}

			client, err := getTodoClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			taskList, err := client.UpdateTaskList(ctx, taskListID, map[string]any{"displayName": name})
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update task list: %v", err)), nil
			}

			result, _ := json.MarshalIndent(taskList, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Task list updated successfully:\n%s", string(result))), nil
		}))

		// Delete task list tool
		deleteTaskListTool := mcp.NewTool("todo_delete_task_list",
			mcp.WithDescription("Delete a task list"),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
			),
			mcp.WithString("taskListId",
				mcp.Required(),
				mcp.Description("The ID of the task list to delete"),
			),
		)

		s.AddTool(deleteTaskListTool, common.InstrumentedToolHandlerWithOperation("todo_delete_task_list", instrumentation.ResourceLists, instrumentation.OperationDelete, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			account := getAccountFromArgs(args)

			taskListID, ok := args["taskListId"].(string)
			if !ok || taskListID == "" {
				return mcp.NewToolResultError("taskListId is required"), nil
			}

			client, err := getTodoClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			err = client.DeleteTaskList(ctx, taskListID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete task list: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Task list %s deleted successfully", taskListID)), nil
		}))
	}

	return nil
}

// registerTaskTools registers task management tools
func registerTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List tasks tool
	listTasksTool := mcp.NewTool("todo_list_tasks",
		mcp.WithDescription("List tasks in a task list with optional filters"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("taskListId",
			mcp.Required(),
			mcp.Description("The ID of the task list"),
		),
		mcp.WithString("filter",
			mcp.Description("Status filter: 'all' (default), 'completed', or 'open'"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of tasks to return (default: unlimited)"),
		),
	)

	s.AddTool(listTasksTool, common.InstrumentedToolHandlerWithOperation("todo_list_tasks", instrumentation.ResourceTasks, instrumentation.OperationList, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		account := getAccountFromArgs(args)

		taskListID, ok := args["taskListId"].(string)
		if !ok || taskListID == "" {
			return mcp.NewToolResultError("taskListId is required"), nil
		}

		client, err := getTodoClient(ctx, account, sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		tasks, err := client.ListTasks(ctx, taskListID, parseLimit(args, "limit"), parseFilter(args))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list tasks: %v", err)), nil
		}

		result, _ := json.MarshalIndent(tasks, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	// Get tasks tool
	getTasksTool := mcp.NewTool("todo_get_tasks",
		mcp.WithDescription("Get details of one or more tasks"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("taskListId",
			mcp.Required(),
			mcp.Description("The ID of the task list"),
		),
		mcp.WithString("taskIds",
			mcp.Required(),
			mcp.Description("Task ID (string) or array of task IDs to retrieve"),
		),
	)

	s.AddTool(getTasksTool, common.InstrumentedToolHandlerWithOperation("todo_get_tasks", instrumentation.ResourceTasks, instrumentation.OperationGet, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		account := getAccountFromArgs(args)

		taskListID, ok := args["taskListId"].(string)
		if !ok || taskListID == "" {
			return mcp.NewToolResultError("taskListId is required"), nil
		}

		taskIDs, err := batch.ParseStringOrArray(args["taskIds"], "taskIds")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, err := getTodoClient(ctx, account, sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		results := batch.ProcessBatch(taskIDs, func(taskID string) (string, error) {
			task, err := client.GetTask(ctx, taskListID, taskID)
			if err != nil {
				return "", err
			}
			jsonBytes, _ := json.Marshal(task)
			return string(jsonBytes), nil
		})

		return mcp.NewToolResultText(batch.FormatResults(results)), nil
	}))

	// Create tasks tool
	createTasksTool := mcp.NewTool("todo_create_tasks",
		mcp.WithDescription("Create one or more tasks in a task list"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("taskListId",
			mcp.Required(),
			mcp.Description("The ID of the task list"),
		),
		mcp.WithString("title",
			mcp.Description("Task title (for single task creation)"),
		),
		mcp.WithString("titles",
			mcp.Description("Array of task titles (for batch task creation)"),
		),
		mcp.WithString("body",
			mcp.Description("Body text or description for the task (single task only)"),
		),
		mcp.WithString("due",
			mcp.Description("Due date for the task (RFC3339 format, single task only)"),
		),
	)

	s.AddTool(createTasksTool, common.InstrumentedToolHandlerWithOperation("todo_create_tasks", instrumentation.ResourceTasks, instrumentation.OperationCreate, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		account := getAccountFromArgs(args)

		taskListID, ok := args["taskListId"].(string)
		if !ok || taskListID == "" {
			return mcp.NewToolResultError("taskListId is required"), nil
		}

		client, err := getTodoClient(ctx, account, sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		// Check if batch mode (titles array) or single mode (title string)
		var titles []string
		if titlesArg, ok := args["titles"]; ok {
			parsedTitles, err := batch.ParseStringOrArray(titlesArg, "titles")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			titles = parsedTitles
		} else if title, ok := args["title"].(string); ok && title != "" {
			titles = []string{title}
		} else {
			return mcp.NewToolResultError("either 'title' or 'titles' is required"), nil
		}

		// For batch mode with simple titles, create tasks with just titles
		if len(titles) > 1 || (len(titles) == 1 && args["titles"] != nil) {
			results := batch.ProcessBatch(titles, func(title string) (string, error) {
				task, err := client.CreateTask(ctx, taskListID, todo.TaskInput{Title: title})
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Task '%s' created with ID: %s", task.Title, task.ID), nil
			})
			return mcp.NewToolResultText(batch.FormatResults(results)), nil
		}

		// Single task creation with full parameters
		input := todo.TaskInput{Title: titles[0]}

		if body, ok := args["body"].(string); ok {
			input.BodyText = body
		}

		if dueStr, ok := args["due"].(string); ok && dueStr != "" {
			due, err := time.Parse(time.RFC3339, dueStr)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid due date %q: must be RFC3339", dueStr)), nil
			}
			input.DueDate = due
		}

		task, err := client.CreateTask(ctx, taskListID, input)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create task: %v", err)), nil
		}

		result, _ := json.MarshalIndent(task, "", "  ")
		return mcp.NewToolResultText(fmt.Sprintf("Task created successfully:\n%s", string(result))), nil
	}))

	// Register update/delete/complete tools only if not in read-only mode
	if !readOnly {
		// Update task tool
		updateTaskTool := mcp.NewTool("todo_update_task",
			mcp.WithDescription("Update an existing task"),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
			),
			mcp.WithString("taskListId",
				mcp.Required(),
				mcp.Description("The ID of the task list"),
			),
			mcp.WithString("taskId",
				mcp.Required(),
				mcp.Description("The ID of the task to update"),
			),
			mcp.WithString("title",
				mcp.Description("New title for the task"),
			),
			mcp.WithString("body",
				mcp.Description("New body text for the task"),
			),
			mcp.WithString("status",
				mcp.Description("New status: 'notStarted', 'inProgress', 'completed', 'waitingOnOthers' or 'deferred'"),
			),
			mcp.WithString("importance",
				mcp.Description("New importance: 'low', 'normal' or 'high'"),
			),
			mcp.WithString("due",
				mcp.Description("New due date for the task (RFC3339 format)"),
			),
		)

		s.AddTool(updateTaskTool, common.InstrumentedToolHandlerWithOperation("todo_update_task", instrumentation.ResourceTasks, instrumentation.OperationUpdate, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			account := getAccountFromArgs(args)

			taskListID, ok := args["taskListId"].(string)
			if !ok || taskListID == "" {
				return mcp.NewToolResultError("taskListId is required"), nil
			}

			taskID, ok := args["taskId"].(string)
			if !ok || taskID == "" {
				return mcp.NewToolResultError("taskId is required"), nil
			}

			fields := map[string]any{}

			if title, ok := args["title"].(string); ok && title != "" {
				fields["title"] = title
			}

			if body, ok := args["body"].(string); ok && body != "" {
				fields["body"] = todo.Body{Content: body, ContentType: "text"}
			}

			if status, ok := args["status"].(string); ok && status != "" {
				fields["status"] = status
			}

			if importance, ok := args["importance"].(string); ok && importance != "" {
				fields["importance"] = importance
			}

			if dueStr, ok := args["due"].(string); ok && dueStr != "" {
				due, err := time.Parse(time.RFC3339, dueStr)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("invalid due date %q: must be RFC3339", dueStr)), nil
				}
				fields["dueDateTime"] = todo.NewUTCDateTime(due)
			}

			if len(fields) == 0 {
				return mcp.NewToolResultError("at least one field to update is required"), nil
			}

			client, err := getTodoClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			task, err := client.UpdateTask(ctx, taskListID, taskID, fields)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update task: %v", err)), nil
			}

			result, _ := json.MarshalIndent(task, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Task updated successfully:\n%s", string(result))), nil
		}))

		// Delete tasks tool
		deleteTasksTool := mcp.NewTool("todo_delete_tasks",
			mcp.WithDescription("Delete one or more tasks"),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
			),
			mcp.WithString("taskListId",
				mcp.Required(),
				mcp.Description("The ID of the task list"),
			),
			mcp.WithString("taskIds",
				mcp.Required(),
				mcp.Description("Task ID (string) or array of task IDs to delete"),
			),
		)

		s.AddTool(deleteTasksTool, common.InstrumentedToolHandlerWithOperation("todo_delete_tasks", instrumentation.ResourceTasks, instrumentation.OperationDelete, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			account := getAccountFromArgs(args)

			taskListID, ok := args["taskListId"].(string)
			if !ok || taskListID == "" {
				return mcp.NewToolResultError("taskListId is required"), nil
			}

			taskIDs, err := batch.ParseStringOrArray(args["taskIds"], "taskIds")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getTodoClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			results := batch.ProcessBatch(taskIDs, func(taskID string) (string, error) {
				if err := client.DeleteTask(ctx, taskListID, taskID); err != nil {
					return "", err
				}
				return fmt.Sprintf("Task %s deleted successfully", taskID), nil
			})

			return mcp.NewToolResultText(batch.FormatResults(results)), nil
		}))

		// Complete tasks tool
		completeTasksTool := mcp.NewTool("todo_complete_tasks",
			mcp.WithDescription("Mark one or more tasks as completed"),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
			),
			mcp.WithString("taskListId",
				mcp.Required(),
				mcp.Description("The ID of the task list"),
			),
			mcp.WithString("taskIds",
				mcp.Required(),
				mcp.Description("Task ID (string) or array of task IDs to complete"),
			),
		)

		s.AddTool(completeTasksTool, common.InstrumentedToolHandlerWithOperation("todo_complete_tasks", instrumentation.ResourceTasks, instrumentation.OperationComplete, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})
			account := getAccountFromArgs(args)

			taskListID, ok := args["taskListId"].(string)
			if !ok || taskListID == "" {
				return mcp.NewToolResultError("taskListId is required"), nil
			}

			taskIDs, err := batch.ParseStringOrArray(args["taskIds"], "taskIds")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getTodoClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			results := batch.ProcessBatch(taskIDs, func(taskID string) (string, error) {
				task, err := client.CompleteTask(ctx, taskListID, taskID)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Task %s (%s) completed successfully", taskID, task.Title), nil
			})

			return mcp.NewToolResultText(batch.FormatResults(results)), nil
		}))
	}

	return nil
}
