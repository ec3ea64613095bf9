// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/concierge"
	"github.com/poiesic/concierge/config"
	"github.com/poiesic/concierge/core"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "concierge",
		Usage:  "Route expat questions to directory listings and guides",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
				EnvVars: []string{"CONCIERGE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "Answer a question with directory listings",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
				Flags: append(engineFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of items to return (0 for all)",
						Value: 5,
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Number of items to skip",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the full response as JSON",
					},
				),
			},
			{
				Name:      "classify",
				Usage:     "Show how a question is routed",
				ArgsUsage: "QUESTION",
				Action:    classifyCommand,
				Flags:     engineFlags(),
			},
			{
				Name:   "sync-directory",
				Usage:  "Copy the upstream directory into a local snapshot",
				Action: syncDirectoryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "snapshot",
						Aliases:  []string{"s"},
						Usage:    "Path to the BadgerDB snapshot directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "directory-file",
						Usage: "Read the upstream directory from a JSON file",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts per category",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:   "sync-feeds",
				Usage:  "Fetch the editorial feeds into the article cache",
				Action: syncFeedsCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "feed",
						Usage: "Feed URL (repeatable); replaces the configured feeds",
					},
					&cli.StringFlag{
						Name:  "cache-file",
						Usage: "Where synced articles are kept",
					},
				},
			},
		},
	}
}

func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "lang",
			Usage: "Question language (es, en)",
			Value: string(core.DefaultLanguage),
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
		&cli.BoolFlag{
			Name:  "no-embeddings",
			Usage: "Disable the semantic classification stage",
		},
		&cli.StringFlag{
			Name:  "directory-file",
			Usage: "Read the directory from a JSON file",
		},
		&cli.StringFlag{
			Name:  "snapshot",
			Usage: "Read the directory from a BadgerDB snapshot",
		},
		&cli.StringFlag{
			Name:  "guides",
			Usage: "Directory of editorial guide JSON files",
		},
		&cli.StringFlag{
			Name:  "cache-file",
			Usage: "Article cache written by sync-feeds",
		},
	}
}

// loadConfig reads --config and applies command flags on top.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("embedding-host") {
		cfg.Embedding.Host = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		cfg.Embedding.Model = c.String("embedding-model")
	}
	if c.Bool("no-embeddings") {
		cfg.Embedding.Enabled = false
	}
	if c.IsSet("directory-file") {
		cfg.Directory.File = c.String("directory-file")
	}
	if c.IsSet("snapshot") {
		cfg.Directory.SnapshotPath = c.String("snapshot")
	}
	if c.IsSet("guides") {
		cfg.Editorial.GuidesDir = c.String("guides")
	}
	if c.IsSet("max-retries") {
		cfg.Sync.MaxRetries = c.Int("max-retries")
	}
	if c.IsSet("retry-delay") {
		cfg.Sync.RetryDelay = c.Duration("retry-delay")
	}
	if c.IsSet("cache-file") {
		cfg.Editorial.CacheFile = c.String("cache-file")
	}
	if c.IsSet("feed") {
		cfg.Editorial.Feeds = c.StringSlice("feed")
	}
	return cfg, nil
}

func question(c *cli.Context) (string, error) {
	q := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if q == "" {
		return "", fmt.Errorf("a question is required")
	}
	return q, nil
}

func openEngine(ctx context.Context, c *cli.Context) (*concierge.Engine, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return concierge.NewEngine(ctx, cfg)
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()
	q, err := question(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	defer engine.Close()

	resp := engine.Ask(ctx, core.QueryRequest{
		Question: q,
		Language: core.Language(c.String("lang")),
		Limit:    c.Int("limit"),
		Offset:   c.Int("offset"),
	})

	out := c.App.Writer
	if c.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Fprintln(out, resp.Message)
	fmt.Fprintf(out, "\n[%s, %.2f via %s]\n", resp.Category, resp.Confidence, resp.Stage)
	for i, item := range resp.Items {
		fmt.Fprintf(out, "%d. %s", i+1, item.Name)
		if item.Description != "" {
			fmt.Fprintf(out, " - %s", item.Description)
		}
		fmt.Fprintln(out)
	}
	if resp.HasMore {
		fmt.Fprintf(out, "... %d of %d shown, next offset %d\n", len(resp.Items), resp.Total, *resp.NextOffset)
	}
	for _, ref := range resp.EditorialRefs {
		fmt.Fprintf(out, "See also: %s (%s)\n", ref.Title, ref.URL)
	}
	return nil
}

func classifyCommand(c *cli.Context) error {
	ctx := context.Background()
	q, err := question(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	defer engine.Close()

	r := engine.Classify(ctx, q, core.Language(c.String("lang")))
	fmt.Fprintf(c.App.Writer, "category=%q confidence=%.4f stage=%s", r.Category, r.Confidence, r.Stage)
	if r.Matched != "" {
		fmt.Fprintf(c.App.Writer, " matched=%q", r.Matched)
	}
	fmt.Fprintln(c.App.Writer)
	return nil
}

func syncDirectoryCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	stats, err := concierge.SyncDirectory(context.Background(), cfg, os.Stderr)
	if err != nil {
		return fmt.Errorf("directory sync failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Snapshot updated with %d records\n", stats.Records)
	return nil
}

func syncFeedsCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	count, err := concierge.SyncFeeds(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("feed sync failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Fetched %d new articles\n", count)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
