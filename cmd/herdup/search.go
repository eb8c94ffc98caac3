package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/herdup/herdup/internal/screens"
)

func newSearchCmd(a *app) *cobra.Command {
	var tagIDs []int64
	var interactive bool
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search organizations by text and tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s := screens.NewSearchScreen(a.api, a.cfg.Debounce, a.logger)
			defer s.Close()

			if interactive {
				return a.searchLoop(cmd, s)
			}
			for _, id := range tagIDs {
				s.ToggleTag(ctx, id)
			}
			query := strings.Join(args, " ")
			if query == "" && len(tagIDs) == 0 {
				if err := s.LoadCatalogue(ctx); err != nil {
					return err
				}
				return a.printSuggestions(cmd.OutOrStdout(), s)
			}
			s.SetQuery(ctx, query)
			s.Wait()
			return a.printResults(cmd.OutOrStdout(), s)
		},
	}
	cmd.Flags().Int64SliceVar(&tagIDs, "tag", nil, "tag ids every result must carry")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "read queries line by line; \"#<id>\" toggles a tag")
	return cmd
}

// searchLoop treats each input line as a keystroke-level update of the query.
func (a *app) searchLoop(cmd *cobra.Command, s *screens.SearchScreen) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if err := s.LoadCatalogue(ctx); err != nil {
		return err
	}
	if err := a.printSuggestions(out, s); err != nil {
		return err
	}
	in := bufio.NewScanner(cmd.InOrStdin())
	for in.Scan() {
		line := in.Text()
		if rest, ok := strings.CutPrefix(line, "#"); ok {
			var id int64
			if _, err := fmt.Sscan(rest, &id); err != nil {
				fmt.Fprintf(out, "not a tag id: %q\n", rest)
				continue
			}
			s.ToggleTag(ctx, id)
		} else {
			s.SetQuery(ctx, line)
		}
		s.Wait()
		if err := a.printResults(out, s); err != nil {
			return err
		}
	}
	return in.Err()
}

func (a *app) printResults(w io.Writer, s *screens.SearchScreen) error {
	if err := s.Err(); err != nil {
		fmt.Fprintln(w, err)
		return nil
	}
	results := s.Results()
	return a.emit(w, results, func(w io.Writer) {
		if len(results) == 0 {
			fmt.Fprintln(w, "No results")
			return
		}
		for _, r := range results {
			fmt.Fprintf(w, "%.2f\t%s\t%s\n", r.Similarity, r.Title, r.ID)
		}
	})
}

func (a *app) printSuggestions(w io.Writer, s *screens.SearchScreen) error {
	cards := s.Suggestions()
	tags := s.Tags()
	return a.emit(w, map[string]any{"tags": tags, "organizations": cards}, func(w io.Writer) {
		names := make([]string, 0, len(tags))
		for _, t := range tags {
			names = append(names, fmt.Sprintf("#%d %s", t.ID, t.Name))
		}
		fmt.Fprintf(w, "Tags: %s\n\n", strings.Join(names, "  "))
		for _, c := range cards {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, strings.Join(c.Tags, ", "), c.ID)
		}
	})
}
