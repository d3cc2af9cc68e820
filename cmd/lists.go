package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/todofewer/internal/msauth"
	"github.com/teemow/todofewer/internal/todo"
)

// newTodoClient builds a To Do client for a stored account using the
// application credentials from the environment.
func newTodoClient(account string) (*todo.Client, error) {
	config, err := msauth.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	client, err := todo.NewClientForAccount(config, account)
	if err != nil {
		return nil, fmt.Errorf("failed to create To Do client for account %s: %w", account, err)
	}
	return client, nil
}

func newListsCmd() *cobra.Command {
	var (
		account string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Show the task lists of an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newTodoClient(account)
			if err != nil {
				return err
			}

			lists, err := client.ListTaskLists(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("listing task lists: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tWELLKNOWN\tSHARED")
			for _, l := range lists {
				wellknown := ""
				if l.IsWellknown() {
					wellknown = string(l.WellknownListName)
				}
				shared := ""
				if l.IsShared {
					shared = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.ID, l, wellknown, shared)
			}
			return w.Flush()
		},
	}

	cmd.PersistentFlags().StringVar(&account, "account", msauth.DefaultAccount, "Microsoft account name to use")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of lists to return (0 uses the service default)")

	cmd.AddCommand(newListsCreateCmd(&account))
	cmd.AddCommand(newListsRenameCmd(&account))
	cmd.AddCommand(newListsDeleteCmd(&account))

	return cmd
}

func newListsCreateCmd(account *string) *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new task list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newTodoClient(*account)
			if err != nil {
				return err
			}
			list, err := client.CreateTaskList(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("creating task list: %w", err)
			}
			fmt.Printf("Created list %q (%s)\n", list.DisplayName, list.ID)
			return nil
		},
	}
}

func newListsRenameCmd(account *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rename LIST_ID NAME",
		Short: "Rename a task list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newTodoClient(*account)
			if err != nil {
				return err
			}
			list, err := client.UpdateTaskList(cmd.Context(), args[0], map[string]any{"displayName": args[1]})
			if err != nil {
				return fmt.Errorf("renaming task list: %w", err)
			}
			fmt.Printf("Renamed list %s to %q\n", list.ID, list.DisplayName)
			return nil
		},
	}
}

func newListsDeleteCmd(account *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete LIST_ID",
		Short: "Delete a task list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newTodoClient(*account)
			if err != nil {
				return err
			}
			if err := client.DeleteTaskList(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("deleting task list: %w", err)
			}
			fmt.Printf("Deleted list %s\n", args[0])
			return nil
		},
	}
}
