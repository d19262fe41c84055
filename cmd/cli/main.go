package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"goanova/adapters/dist"
	"goanova/adapters/excel"
	"goanova/adapters/linmodel"
	"goanova/adapters/postgres"
	"goanova/app"
	"goanova/domain/core"
	"goanova/internal/config"
	"goanova/internal/render"
	"goanova/internal/testkit"
	"goanova/ports"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "goanova",
		Short: "One-way and multi-factor ANOVA with Tukey HSD post-hoc comparisons",
	}

	rootCmd.AddCommand(
		newOneWayCmd(),
		newFactorialCmd(),
		newDemoCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newService builds the analysis service, attaching the Postgres run
// repository when DATABASE_URL is configured. The config is returned so
// commands can fall back to configured analysis defaults.
func newService(persist bool) (*app.AnalysisService, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	var runs ports.RunRepository
	if persist && cfg.Database.Enabled {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("database connect: %w", err)
		}
		if err := postgres.Migrate(context.Background(), db); err != nil {
			return nil, nil, fmt.Errorf("database migrate: %w", err)
		}
		runs = postgres.NewRunRepository(db)
	}

	return app.NewAnalysisService(dist.NewGonumProvider(), linmodel.NewOLSFitter(), runs), cfg, nil
}

func newOneWayCmd() *cobra.Command {
	var filePath, response, factor string
	var alpha float64
	var asMarkdown, persist bool

	cmd := &cobra.Command{
		Use:   "oneway",
		Short: "One-way ANOVA with Tukey HSD over a CSV or Excel file",
		Long: `Decompose a numeric response by a categorical factor, test equality of
group means with an F test, and compare every pair of groups with Tukey's
honestly significant difference.

Example: goanova oneway --file scores.csv --response score --factor method`,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, cfg, err := newService(persist)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("alpha") {
				alpha = cfg.Analysis.Alpha
			}
			responseKey, err := core.ParseColumnKey(response)
			if err != nil {
				return err
			}
			factorKey, err := core.ParseColumnKey(factor)
			if err != nil {
				return err
			}

			result, err := service.RunOneWay(cmd.Context(), app.OneWayRequest{
				Reader:   excel.NewDataReader(filePath),
				Response: responseKey,
				Factor:   factorKey,
				Alpha:    alpha,
			})
			if err != nil {
				return err
			}

			if asMarkdown {
				fmt.Println(render.ReportMarkdown(result.Manifest, result.Table, result.Comparisons, result.Summaries))
				return nil
			}
			fmt.Printf("Run %s (alpha=%.3g)\n\n", result.Manifest.RunID, result.Manifest.Alpha)
			fmt.Println(render.SummariesText(result.Summaries))
			fmt.Println(render.TableText(result.Table))
			fmt.Println(render.ComparisonsText(result.Comparisons))
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "CSV or Excel input file")
	cmd.Flags().StringVar(&response, "response", "", "numeric response column")
	cmd.Flags().StringVar(&factor, "factor", "", "categorical factor column")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "family-wise significance level")
	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "emit a markdown report")
	cmd.Flags().BoolVar(&persist, "persist", false, "store the run when DATABASE_URL is set")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("response")
	_ = cmd.MarkFlagRequired("factor")
	return cmd
}

func newFactorialCmd() *cobra.Command {
	var filePath, response string
	var factors, covariates, interactions []string
	var alpha float64

	cmd := &cobra.Command{
		Use:   "factorial",
		Short: "Multi-factor ANOVA (Type II) over a CSV or Excel file",
		Long: `Fit a linear model of the response on categorical factors, optional
numeric covariates, and optional two-way interactions, then decompose the
per-term sums of squares under the Type II convention.

Example: goanova factorial --file scores.csv --response score \
  --factors method,cohort --covariates hours --interactions method:cohort`,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, cfg, err := newService(false)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("alpha") {
				alpha = cfg.Analysis.Alpha
			}
			responseKey, err := core.ParseColumnKey(response)
			if err != nil {
				return err
			}

			spec := ports.ModelSpec{Response: responseKey}
			for _, f := range factors {
				spec.Factors = append(spec.Factors, core.ColumnKey(f))
			}
			for _, cv := range covariates {
				spec.Covariates = append(spec.Covariates, core.ColumnKey(cv))
			}
			for _, in := range interactions {
				parts := strings.SplitN(in, ":", 2)
				if len(parts) != 2 {
					return fmt.Errorf("interaction %q must be factorA:factorB", in)
				}
				spec.Interactions = append(spec.Interactions, [2]core.ColumnKey{
					core.ColumnKey(parts[0]), core.ColumnKey(parts[1]),
				})
			}

			result, err := service.RunFactorial(cmd.Context(), app.FactorialRequest{
				Reader: excel.NewDataReader(filePath),
				Spec:   spec,
				Alpha:  alpha,
			})
			if err != nil {
				return err
			}

			fmt.Println(render.TableText(result.Table))
			coefs, _ := json.MarshalIndent(result.Coefficients, "", "  ")
			fmt.Printf("Coefficients:\n%s\n", coefs)
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "CSV or Excel input file")
	cmd.Flags().StringVar(&response, "response", "", "numeric response column")
	cmd.Flags().StringSliceVar(&factors, "factors", nil, "categorical factor columns")
	cmd.Flags().StringSliceVar(&covariates, "covariates", nil, "numeric covariate columns")
	cmd.Flags().StringSliceVar(&interactions, "interactions", nil, "two-way interactions, factorA:factorB")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "significance level")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("response")
	_ = cmd.MarkFlagRequired("factors")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var seed int64
	var alpha float64

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the analysis over a seeded synthetic dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, appCfg, err := newService(false)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("alpha") {
				alpha = appCfg.Analysis.Alpha
			}

			cfg := testkit.DefaultConfig()
			cfg.Seed = seed
			frame, err := testkit.GenerateFrame(cfg)
			if err != nil {
				return err
			}

			result, err := service.RunOneWay(cmd.Context(), app.OneWayRequest{
				Reader:   app.NewStaticReader(frame),
				Response: "response",
				Factor:   "group",
				Alpha:    alpha,
			})
			if err != nil {
				return err
			}
			result.Manifest.Seed = seed

			fmt.Println(render.SummariesText(result.Summaries))
			fmt.Println(render.TableText(result.Table))
			fmt.Println(render.ComparisonsText(result.Comparisons))
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed for the synthetic sample")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "family-wise significance level")
	return cmd
}
