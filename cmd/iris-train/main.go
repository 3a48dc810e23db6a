// Command iris-train builds the iris classifier artifact served by irisd.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aescanero/irisd/internal/classifier"
	"github.com/aescanero/irisd/internal/training"
	"github.com/aescanero/irisd/pkg/adapters/storage/file"
	redisstorage "github.com/aescanero/irisd/pkg/adapters/storage/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := rootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd(out io.Writer) *cobra.Command {
	opts := training.DefaultOptions()
	var output string
	var redisAddr string
	var redisKey string
	var verbose bool

	c := &cobra.Command{
		Use:          "iris-train",
		Short:        "Train the iris random forest and write the model artifact",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := zap.NewNop()
			if verbose {
				var err error
				if logger, err = zap.NewDevelopment(); err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
			}
			defer func() { _ = logger.Sync() }()

			ds, err := training.Iris()
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}

			start := time.Now()
			result, err := training.Train(ds, opts)
			if err != nil {
				return fmt.Errorf("failed to train model: %w", err)
			}
			logger.Info("training finished",
				zap.Int("trees", opts.Trees),
				zap.Int("train_rows", result.TrainSize),
				zap.Int("test_rows", result.TestSize),
				zap.Duration("duration", time.Since(start)))

			fmt.Fprintf(out, "Model accuracy: %.2f\n", result.Accuracy)

			data, err := classifier.Encode(result.Artifact)
			if err != nil {
				return err
			}

			if err := file.Save(output, data); err != nil {
				return err
			}
			fmt.Fprintf(out, "Model saved as '%s'\n", output)

			if redisAddr != "" {
				if err := publish(cmd.Context(), redisAddr, redisKey, data, logger); err != nil {
					return err
				}
				fmt.Fprintf(out, "Model published to redis key '%s'\n", redisKey)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&output, "output", "o", "iris_model.json", "Artifact output path")
	c.Flags().IntVar(&opts.Trees, "trees", opts.Trees, "Number of trees in the forest")
	c.Flags().IntVar(&opts.MaxDepth, "max-depth", opts.MaxDepth, "Maximum tree depth")
	c.Flags().IntVar(&opts.MinSamplesSplit, "min-samples-split", opts.MinSamplesSplit, "Minimum rows required to split a node")
	c.Flags().IntVar(&opts.MaxFeatures, "max-features", opts.MaxFeatures, "Features tried per split (0 = sqrt of feature count)")
	c.Flags().Float64Var(&opts.TestRatio, "test-ratio", opts.TestRatio, "Fraction of rows held out for evaluation")
	c.Flags().Int64Var(&opts.Seed, "seed", opts.Seed, "Random seed")
	c.Flags().StringVar(&redisAddr, "redis-addr", "", "Also publish the artifact to this Redis server")
	c.Flags().StringVar(&redisKey, "redis-key", "irisd:model", "Redis key to publish the artifact under")
	c.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log training progress")

	return c
}

func publish(ctx context.Context, addr, key string, data []byte, logger *zap.Logger) error {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return redisstorage.NewModelStore(client, key, logger).Publish(ctx, data)
}
