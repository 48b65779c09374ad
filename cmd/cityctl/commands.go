package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/cityscout"
)

type projectionOutput struct {
	Components             []string  `json:"components"`
	ExplainedVarianceRatio []float64 `json:"explained_variance_ratio"`
	CumulativeVariance     []float64 `json:"cumulative_variance"`
	Features               []string  `json:"features"`
	Rows                   any       `json:"rows,omitempty"`
}

func newPCACmd(a *app) *cobra.Command {
	var (
		components int
		threshold  float64
		withRows   bool
	)
	cmd := &cobra.Command{
		Use:   "pca",
		Short: "Project the standardized features onto principal components",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			p := cityscout.ReduceParams{VarianceThreshold: threshold}
			if cmd.Flags().Changed("components") {
				p.Components = &components
			}
			proj, err := a.engine.ReduceDimensions(ctx, a.table, p)
			if err != nil {
				return err
			}
			out := projectionOutput{
				Components:             proj.ComponentNames(),
				ExplainedVarianceRatio: proj.ExplainedVarianceRatio,
				CumulativeVariance:     proj.Cumulative(),
				Features:               proj.Features,
			}
			if withRows {
				out.Rows = proj.Rows
			}
			return a.print(out)
		},
	}
	cmd.Flags().IntVar(&components, "components", 0, "number of components (default: smallest reaching --threshold)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "cumulative variance target in (0, 1] (default 0.95)")
	cmd.Flags().BoolVar(&withRows, "rows", false, "include the projected rows")
	return cmd
}

type assignmentOutput struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Cluster int    `json:"cluster"`
}

type clusterOutput struct {
	K           int                        `json:"n_clusters"`
	Silhouette  float64                    `json:"silhouette"`
	Inertia     float64                    `json:"inertia"`
	Components  int                        `json:"pca_components,omitempty"`
	Summaries   []cityscout.ClusterSummary `json:"summaries"`
	Assignments []assignmentOutput         `json:"assignments,omitempty"`
}

func clusterFlags(cmd *cobra.Command, p *cityscout.ClusterParams, k, comps *int) {
	cmd.Flags().IntVar(k, "k", 0, "number of clusters (default: chosen by silhouette)")
	cmd.Flags().BoolVar(&p.UsePCA, "pca", false, "cluster in PCA space")
	cmd.Flags().IntVar(comps, "pca-components", 0, "PCA components when --pca is set")
}

func resolveClusterFlags(cmd *cobra.Command, p *cityscout.ClusterParams, k, comps *int, seed uint64) {
	if cmd.Flags().Changed("k") {
		p.K = k
	}
	if cmd.Flags().Changed("pca-components") {
		p.PCAComponents = comps
	}
	p.Seed = seed
}

func newClusterCmd(a *app) *cobra.Command {
	var (
		p        cityscout.ClusterParams
		k, comps int
		detail   int
		members  bool
	)
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Group cities with K-means",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			resolveClusterFlags(cmd, &p, &k, &comps, a.seed)
			res, err := a.engine.Cluster(ctx, a.table, p)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("detail") {
				d, ok := a.engine.ClusterDetail(res.Labeled, detail)
				if !ok {
					return fmt.Errorf("cluster %d not found (k=%d)", detail, res.K)
				}
				return a.print(d)
			}

			out := clusterOutput{
				K:          res.K,
				Silhouette: res.Silhouette,
				Inertia:    res.Inertia,
				Components: res.Components,
				Summaries:  a.engine.ClusterSummary(res.Labeled),
			}
			if members {
				for i, r := range res.Labeled.Rows {
					out.Assignments = append(out.Assignments, assignmentOutput{
						City: r.City, Country: r.Country, Cluster: res.Labeled.Labels[i],
					})
				}
			}
			return a.print(out)
		},
	}
	clusterFlags(cmd, &p, &k, &comps)
	cmd.Flags().IntVar(&detail, "detail", 0, "print the detail of one cluster id")
	cmd.Flags().BoolVar(&members, "members", false, "include per-city assignments")
	return cmd
}

func newElbowCmd(a *app) *cobra.Command {
	var (
		p        cityscout.ClusterParams
		k, comps int
		maxK     int
	)
	cmd := &cobra.Command{
		Use:   "elbow",
		Short: "Report K-means inertia for K = 1..max-k",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			resolveClusterFlags(cmd, &p, &k, &comps, a.seed)
			points, err := a.engine.Elbow(ctx, a.table, p, maxK)
			if err != nil {
				return err
			}
			return a.print(points)
		},
	}
	cmd.Flags().IntVar(&maxK, "max-k", 0, "largest K to fit (default 15)")
	cmd.Flags().BoolVar(&p.UsePCA, "pca", false, "fit in PCA space")
	cmd.Flags().IntVar(&comps, "pca-components", 0, "PCA components when --pca is set")
	return cmd
}

type itemOutput struct {
	City           string               `json:"city"`
	Country        string               `json:"country"`
	Region         string               `json:"region"`
	Score          float64              `json:"score"`
	Recommendation *float64             `json:"recommendation_score,omitempty"`
	Similarity     *float64             `json:"similarity_score,omitempty"`
	Hybrid         *float64             `json:"hybrid_score,omitempty"`
	Breakdown      *cityscout.Breakdown `json:"breakdown,omitempty"`
}

func toItems(items []cityscout.Item) []itemOutput {
	out := make([]itemOutput, len(items))
	for i, it := range items {
		r := it.Row()
		o := itemOutput{
			City: r.City, Country: r.Country, Region: r.Region,
			Score: it.Score(), Breakdown: it.Breakdown(),
		}
		if v, ok := it.Recommendation(); ok {
			o.Recommendation = &v
		}
		if v, ok := it.Similarity(); ok {
			o.Similarity = &v
		}
		if v, ok := it.Hybrid(); ok {
			o.Hybrid = &v
		}
		out[i] = o
	}
	return out
}

func newSimilarCmd(a *app) *cobra.Command {
	var (
		activities []string
		top        int
	)
	cmd := &cobra.Command{
		Use:   "similar CITY",
		Short: "Rank cities by similarity to a reference city",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			items := a.engine.SimilarCities(ctx, a.table, args[0], activities)
			if top > 0 && len(items) > top {
				items = items[:top]
			}
			return a.print(toItems(items))
		},
	}
	cmd.Flags().StringSliceVar(&activities, "activities", nil, "activity columns to compare on (default: feature set)")
	cmd.Flags().IntVar(&top, "top", 10, "number of results; 0 prints all")
	return cmd
}

func newRecommendCmd(a *app) *cobra.Command {
	var (
		p    cityscout.PreferenceParams
		m    string
		top  int
		file string
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank cities against travel preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file != "" {
				fromFile, err := readPreferences(file)
				if err != nil {
					return err
				}
				p = mergePreferences(fromFile, p, cmd)
			}
			prefs, err := cityscout.NewPreferences(p)
			if err != nil {
				return err
			}
			mode, err := cityscout.ParseMode(m)
			if err != nil {
				return err
			}
			ctx, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			items, err := a.engine.Recommend(ctx, a.table, prefs, mode, top)
			if err != nil {
				return err
			}
			return a.print(toItems(items))
		},
	}
	f := cmd.Flags()
	f.StringVar(&m, "mode", "hybrid", "hybrid, preferences, similarity or cluster")
	f.IntVar(&top, "top", 10, "number of results; 0 prints all")
	f.StringVarP(&file, "file", "f", "", "YAML preferences file; flags override its fields")
	f.StringSliceVar(&p.Activities, "activities", nil, "preferred activities")
	f.StringVar(&p.Budget, "budget", "", "Budget, Mid-range or Luxury")
	f.IntVar(&p.ActivityThreshold, "threshold", 0, "minimum activity score 0-100")
	f.StringSliceVar(&p.SpecialFilters, "filters", nil, "special filters such as Safe or Halal-friendly")
	f.StringVar(&p.Temperature, "temperature", "", "warm, moderate or cold")
	f.StringVar(&p.Duration, "duration", "", "trip duration column such as weekend")
	f.StringVar(&p.TargetCity, "target", "", "reference city for similarity, hybrid and cluster modes")
	f.StringSliceVar(&p.ExcludeCities, "exclude", nil, "cities to leave out")
	return cmd
}
