package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/entrhq/broca/pkg/memory"
	"github.com/entrhq/broca/pkg/ui"
	"github.com/spf13/cobra"
)

func memoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "memory",
		Aliases: []string{"mem"},
		Short:   "Read and write the memory store",
	}
	cmd.AddCommand(
		rememberCmd(a),
		recallCmd(a),
		searchCmd(a),
		searchTagCmd(a),
		recentCmd(a),
		showCmd(a),
		journalCmd(a),
		updateConfidenceCmd(a),
		supersedeCmd(a),
		relateCmd(a),
		latestCmd(a),
		graphCmd(a),
		statsCmd(a),
		indexCmd(a),
	)
	return cmd
}

func rememberCmd(a *app) *cobra.Command {
	var (
		kind string
		tags string
	)
	cmd := &cobra.Command{
		Use:   "remember <title> <content...>",
		Short: "Store a new knowledge entry",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			e, err := store.Remember(cmd.Context(), memory.Kind(kind), args[0], strings.Join(args[1:], " "), splitTags(tags))
			if err != nil {
				return err
			}
			a.logf("remembered %s", e.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Stored: %s\n", e.Path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "type", "t", string(memory.KindFact), "entry type: fact, decision, observation, error, procedure")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	return cmd
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func recallCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recall <query...>",
		Short: "Rank knowledge entries against a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = a.ws.Config.Recall.Limit
			}
			query := strings.Join(args, " ")
			results, err := store.Recall(cmd.Context(), query, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.Recall(query, results))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum results (default from recall.limit)")
	return cmd
}

func searchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text...>",
		Short: "Find knowledge entries containing text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			entries, err := store.Search(cmd.Context(), query)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.Entries(fmt.Sprintf("Search %q", query), entries))
			return nil
		},
	}
}

func searchTagCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search-tag <tag>",
		Short: "Find knowledge entries by tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			entries, err := store.SearchByTag(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.Entries("Tag "+args[0], entries))
			return nil
		},
	}
}

func recentCmd(a *app) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the newest knowledge entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			entries, err := store.Recent(cmd.Context(), count)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.Entries("Recent", entries))
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of entries (0 for all)")
	return cmd
}

func showCmd(a *app) *cobra.Command {
	var color, copyText bool
	cmd := &cobra.Command{
		Use:   "show <entry>",
		Short: "Print an entry without its header",
		Long:  "Print an entry without its header. The entry may be named by id, filename, glob pattern or id fragment.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			text, err := store.Show(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if copyText {
				if err := clipboard.WriteAll(text); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard.")
			}
			if color {
				if text, err = ui.Highlight(text); err != nil {
					return err
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&color, "color", false, "syntax-highlight the markdown")
	cmd.Flags().BoolVar(&copyText, "copy", false, "also copy the entry to the clipboard")
	return cmd
}

func journalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "journal <summary...>",
		Short: "Record an iteration summary",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			e, err := store.Journal(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			a.logf("journaled %s", e.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Journal entry: %s\n", e.Path)
			return nil
		},
	}
}

func updateConfidenceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update-confidence <entry> <value>",
		Short: "Set the confidence of an entry (0.0 to 1.0)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("confidence %q is not a number", args[1])
			}
			store, err := a.open()
			if err != nil {
				return err
			}
			e, err := store.UpdateConfidence(cmd.Context(), args[0], value)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated confidence to %.2f: %s\n", e.Confidence, e.Path)
			return nil
		},
	}
}

func supersedeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "supersede <old-entry> <new-entry>",
		Short: "Mark an entry as replaced by a newer one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			e, err := store.Supersede(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked as superseded by %s: %s\n", e.SupersededBy, e.Path)
			return nil
		},
	}
}

func relateCmd(a *app) *cobra.Command {
	var relationType string
	cmd := &cobra.Command{
		Use:   "relate <entry> <target>",
		Short: "Record a typed relation from one entry to another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			e, rel, err := store.Relate(cmd.Context(), args[0], relationType, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Relation added: %s --[%s]--> %s\n", e.ID, rel.Type, rel.Target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&relationType, "type", "t", "related", "relation type, e.g. supports, contradicts, extends")
	return cmd
}

func latestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "latest <entry>",
		Short: "Follow supersessions to the current version of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			id, err := store.LatestVersion(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func graphCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "graph [entry]",
		Short: "Show relations and supersessions, optionally around one entry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			var edges []memory.Edge
			if len(args) == 1 {
				out, in, err := store.EdgesOf(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				edges = append(out, in...)
			} else if edges, err = store.Graph(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.Graph(edges))
			return nil
		},
	}
}

func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the memory store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			st, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.Stats(st))
			return nil
		},
	}
}

func indexCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Rebuild the memory index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			idx, err := store.BuildIndex(cmd.Context())
			if err != nil {
				return err
			}
			a.logf("indexed %d entries", len(idx.Entries))
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d entries.\n", len(idx.Entries))
			return nil
		},
	}
}
