package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/simrec/internal/app"
	"github.com/kailas-cloud/simrec/internal/domain"
	"github.com/kailas-cloud/simrec/internal/domain/recommendation"
)

type recommendFlags struct {
	limit  int
	skip   int
	asJSON bool
}

type jsonItem struct {
	Title string   `json:"title"`
	URL   string   `json:"url"`
	Row   int      `json:"row"`
	Score *float64 `json:"score"`
}

func newRecommendCommand(g *globals) *cobra.Command {
	f := &recommendFlags{}
	cmd := &cobra.Command{
		Use:   "recommend <ref>",
		Short: "List the documents most similar to a reference",
		Long: `Look up a reference in the corpus and print its nearest neighbours
from the similarity matrix, most similar first.

Examples:
  simrec-cli recommend "MN 1"
  simrec-cli recommend "SN 12.2" --limit 10
  simrec-cli recommend "MN 1" --skip 0 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.skip < 0 {
				return fmt.Errorf("--skip must be >= 0, got %d", f.skip)
			}
			if cmd.Flags().Changed("skip") {
				skip := f.skip
				g.cfg.Recommend.SkipNearest = &skip
			}
			return runRecommend(cmd.Context(), cmd.OutOrStdout(), g, f, args[0])
		},
	}
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "max results (default from config)")
	cmd.Flags().IntVar(&f.skip, "skip", recommendation.DefaultSkipNearest, "nearest neighbours to drop after the reference itself")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print JSON")
	return cmd
}

func runRecommend(ctx context.Context, out io.Writer, g *globals, f *recommendFlags, ref string) error {
	ds, err := g.loadDataset()
	if err != nil {
		return err
	}
	svc, err := app.NewRecommendService(&g.cfg, ds, nil, g.logger)
	if err != nil {
		return err
	}

	items, err := svc.Recommend(ctx, ref, f.limit)
	if errors.Is(err, domain.ErrReferenceNotFound) {
		return fmt.Errorf("%w: %q", err, ref)
	}
	if err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	if f.asJSON {
		result := make([]jsonItem, len(items))
		for i, it := range items {
			result[i] = jsonItem{Title: it.Title, URL: it.URL, Row: it.Row, Score: it.FiniteScore()}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string][]jsonItem{"result": result})
	}

	fmt.Fprintf(out, "Similar to %q:\n\n", ref)
	for i, it := range items {
		fmt.Fprintf(out, "%d. %s\n", i+1, it.Title)
		fmt.Fprintf(out, "   %s\n", it.URL)
		if g.verbose {
			fmt.Fprintf(out, "   row %d, score %.4f\n", it.Row, it.Score)
		}
	}
	return nil
}
