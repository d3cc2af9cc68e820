package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/todofewer/internal/msauth"
	"github.com/teemow/todofewer/internal/todo"
)

// parseStatusFilter maps the CLI filter flag onto a status filter.
func parseStatusFilter(s string) (todo.StatusFilter, error) {
	switch s {
	case "all", "":
		return todo.FilterAll, nil
	case "open", "notCompleted":
		return todo.FilterNotCompleted, nil
	case "completed":
		return todo.FilterCompleted, nil
	default:
		return "", fmt.Errorf("invalid filter %q (expected all, open or completed)", s)
	}
}

// parseDue parses a due date given as RFC 3339 or as a bare date. Bare
// dates are taken as local midnight.
func parseDue(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q (expected RFC 3339 or YYYY-MM-DD)", s)
	}
	return t, nil
}

func newTasksCmd() *cobra.Command {
	var (
		account string
		limit   int
		filter  string
	)

	cmd := &cobra.Command{
		Use:   "tasks LIST_ID",
		Short: "Show the tasks of a task list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			statusFilter, err := parseStatusFilter(filter)
			if err != nil {
				return err
			}

			client, err := newTodoClient(account)
			if err != nil {
				return err
			}

			tasks, err := client.ListTasks(cmd.Context(), args[0], limit, statusFilter)
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tDUE\tTITLE")
			for _, t := range tasks {
				due := ""
				if d, err := t.DueDate(); err == nil && !d.IsZero() {
					due = d.Format("2006-01-02")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Status, due, t.Title)
			}
			return w.Flush()
		},
	}

	cmd.PersistentFlags().StringVar(&account, "account", msauth.DefaultAccount, "Microsoft account name to use")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of tasks to return (0 means all)")
	cmd.Flags().StringVar(&filter, "filter", "open", "Filter by completion state: all, open or completed")

	cmd.AddCommand(newTasksAddCmd(&account))
	cmd.AddCommand(newTasksCompleteCmd(&account))
	cmd.AddCommand(newTasksDeleteCmd(&account))

	return cmd
}

func newTasksAddCmd(account *string) *cobra.Command {
	var (
		due  string
		body string
	)

	cmd := &cobra.Command{
		Use:   "add LIST_ID TITLE",
		Short: "Create a task in a task list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := todo.TaskInput{Title: args[1], BodyText: body}
			if due != "" {
				t, err := parseDue(due)
				if err != nil {
					return err
				}
				input.DueDate = t
			}

			client, err := newTodoClient(*account)
			if err != nil {
				return err
			}
			task, err := client.CreateTask(cmd.Context(), args[0], input)
			if err != nil {
				return fmt.Errorf("creating task: %w", err)
			}
			fmt.Printf("Created task %q (%s)\n", task.Title, task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&due, "due", "", "Due date (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&body, "body", "", "Task body text")

	return cmd
}

func newTasksCompleteCmd(account *string) *cobra.Command {
	return &cobra.Command{
		Use:   "complete LIST_ID TASK_ID",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newTodoClient(*account)
			if err != nil {
				return err
			}
			task, err := client.CompleteTask(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("completing task: %w", err)
			}
			fmt.Printf("Completed task %q\n", task.Title)
			return nil
		},
	}
}

func newTasksDeleteCmd(account *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete LIST_ID TASK_ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newTodoClient(*account)
			if err != nil {
				return err
			}
			if err := client.DeleteTask(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("deleting task: %w", err)
			}
			fmt.Printf("Deleted task %s\n", args[1])
			return nil
		},
	}
}
