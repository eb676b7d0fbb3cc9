package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/entrhq/broca/pkg/config"
	"github.com/entrhq/broca/pkg/logging"
	"github.com/entrhq/broca/pkg/mcpserver"
	"github.com/entrhq/broca/pkg/ui"
	"github.com/spf13/cobra"
)

func initCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Make the current directory (or --root) an agent root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := a.rootFlag
			if root == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return err
				}
				root = cwd
			}
			ws, created, err := config.Init(root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if created {
				fmt.Fprintf(out, "Initialized broca in %s\n", ws.Root)
			} else {
				fmt.Fprintf(out, "%s already exists in %s\n", config.FileName, ws.Root)
			}
			fmt.Fprintf(out, "Memory: %s\n", ws.MemoryDir())
			return nil
		},
	}
}

func stateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the agent state file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			state, err := store.State(cmd.Context())
			if err != nil {
				return err
			}
			if strings.TrimSpace(state) == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "No state recorded at %s\n", store.StatePath())
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), state)
			return nil
		},
	}
}

func logCmd(a *app) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the most recent journal entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			entries, err := store.RecentJournal(cmd.Context(), count)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.Journal(entries))
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of entries to show")
	return cmd
}

func mcpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the memory tools over MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			opts := mcpserver.Options{RecallLimit: a.ws.Config.Recall.Limit}
			if a.logger != nil {
				mcpLog, _ := logging.NewLogger("mcp")
				defer mcpLog.Close()
				opts.Logger = mcpLog
			}
			a.logf("serving MCP on stdio for %s", store.Root())
			mcpserver.Version = version
			return mcpserver.Serve(store, opts)
		},
	}
}
