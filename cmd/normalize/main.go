// Command normalize is a thin cobra CLI over the normalization engine: it
// reads a JSON array of observations from a file or stdin, runs them
// through the batch processor, and prints normalized observations plus
// their explain records as JSON. It is a consumer of the core packages,
// not part of them.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tellimer/indicator-normalizer/internal/batch"
	"github.com/tellimer/indicator-normalizer/internal/config"
	"github.com/tellimer/indicator-normalizer/internal/econ"
	"github.com/tellimer/indicator-normalizer/internal/fx"
	"github.com/tellimer/indicator-normalizer/internal/logging"
)

const appName = "indicator-normalizer"

func main() {
	log := logging.New(os.Stderr, zerolog.InfoLevel)

	var (
		inputPath      string
		fxConfigPath   string
		toCurrency     string
		toMagnitude    string
		toTimeScale    string
		concurrency    int
		force          bool
		autoTargets    bool
		outliers       bool
		fetchTimeout   time.Duration
	)

	root := &cobra.Command{
		Use:     "normalize",
		Short:   "Normalize a batch of economic-indicator observations",
		Version: "v0.1.0",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := readObservations(inputPath)
			if err != nil {
				return fmt.Errorf("read observations: %w", err)
			}

			opts := batch.Options{
				Targets: econ.NormalizationTargets{
					ToCurrency:  toCurrency,
					ToMagnitude: econ.Scale(toMagnitude),
					ToTimeScale: econ.TimeScale(toTimeScale),
				},
				Concurrency:         concurrency,
				Force:               force,
				RunAutoTargets:      autoTargets,
				RunOutlierDetection: outliers,
				Log:                 &log,
			}

			if fxConfigPath != "" {
				fxCfg, err := config.LoadFXConfig(fxConfigPath)
				if err != nil {
					return fmt.Errorf("load fx config: %w", err)
				}
				providerOpts := fxCfg.ToProviderOptions()
				provider := fx.NewProvider(nil, log, nil)

				ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
				defer cancel()
				table, err := provider.Fetch(ctx, toCurrency, providerOpts)
				if err != nil {
					return fmt.Errorf("fetch fx table: %w", err)
				}
				opts.FX = &table
			}

			out := batch.ProcessBatch(cmd.Context(), items, opts)
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	root.Flags().StringVarP(&inputPath, "input", "i", "", "path to a JSON array of observations (default: stdin)")
	root.Flags().StringVar(&fxConfigPath, "fx-config", "", "path to an FX provider YAML config")
	root.Flags().StringVar(&toCurrency, "currency", "", "target currency ISO code")
	root.Flags().StringVar(&toMagnitude, "magnitude", "", "target magnitude (ones|thousands|millions|...)")
	root.Flags().StringVar(&toTimeScale, "time-scale", "", "target time basis (day|week|month|quarter|year)")
	root.Flags().IntVar(&concurrency, "concurrency", 4, "batch worker pool size")
	root.Flags().BoolVar(&force, "force", false, "turn disallowed currency conversions and missing time bases into hard errors instead of warnings")
	root.Flags().BoolVar(&autoTargets, "auto-targets", false, "derive per-group targets by majority vote instead of --currency/--magnitude/--time-scale")
	root.Flags().BoolVar(&outliers, "outliers", false, "flag scale outliers within each indicator group")
	root.Flags().DurationVar(&fetchTimeout, "fx-timeout", 10*time.Second, "timeout for the one-shot fx table fetch")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("normalize failed")
		os.Exit(1)
	}
}

func readObservations(path string) ([]econ.Observation, error) {
	var r *os.File
	if path == "" || path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var items []econ.Observation
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}
