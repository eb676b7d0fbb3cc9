// Package main provides the broca command line: a file-based long-term
// memory for autonomous agent loops, usable directly or as an MCP server.
package main

import (
	"fmt"
	"os"

	"github.com/entrhq/broca/pkg/config"
	"github.com/entrhq/broca/pkg/logging"
	"github.com/entrhq/broca/pkg/memory"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	a := &app{}
	if err := a.execute(newRootCmd(a)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds what a command needs once the agent root is known.
type app struct {
	rootFlag string

	ws     *config.Workspace
	store  *memory.Store
	logger *logging.Logger
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "broca",
		Short:         "File-based long-term memory for agent loops",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&a.rootFlag, "root", "r", "", "agent root directory (default: nearest directory with "+config.FileName+")")

	rootCmd.AddCommand(initCmd(a))
	rootCmd.AddCommand(stateCmd(a))
	rootCmd.AddCommand(logCmd(a))
	rootCmd.AddCommand(mcpCmd(a))
	rootCmd.AddCommand(memoryCmd(a))
	return rootCmd
}

// open locates the agent root, starts the session log and opens the store.
func (a *app) open() (*memory.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	var (
		ws  *config.Workspace
		err error
	)
	if a.rootFlag != "" {
		ws, err = config.Load(a.rootFlag)
	} else {
		var cwd string
		cwd, err = os.Getwd()
		if err == nil {
			ws, err = config.Open(cwd)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w (run 'broca init' first)", err)
	}

	opts := []memory.Option{
		memory.WithStateFile(ws.Config.Memory.StateFile),
		memory.WithIndexFile(ws.Config.Memory.IndexFile),
	}
	if ws.Config.Log.Enabled {
		logging.SetDirectory(ws.LogDir())
		// On error the logger falls back to stderr, which is still usable.
		logger, _ := logging.NewLogger("cli")
		a.logger = logger
		opts = append(opts, memory.WithLogger(logger))
	}

	store, err := memory.NewStore(ws.MemoryDir(), opts...)
	if err != nil {
		return nil, err
	}
	a.ws = ws
	a.store = store
	return store, nil
}

func (a *app) logf(format string, v ...interface{}) {
	if a.logger != nil {
		a.logger.Infof(format, v...)
	}
}

// execute runs cmd and closes the session log whether or not it failed.
func (a *app) execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func (a *app) close() error {
	if a.logger == nil {
		return nil
	}
	return a.logger.Close()
}
