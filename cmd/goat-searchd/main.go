// Package main provides the goat-search daemon's CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/umaarov/goat-search/pkg/config"
	"github.com/umaarov/goat-search/pkg/hybrid"
	"github.com/umaarov/goat-search/pkg/logging"
	"github.com/umaarov/goat-search/pkg/server"
	"github.com/umaarov/goat-search/pkg/telemetry"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "goat-searchd",
		Short: "goat-search - hybrid BM25 + vector search daemon",
		Long: `goat-search is a small TCP daemon combining BM25 lexical search
with hashed n-gram vector search into one ranked result list.

It takes no flags and reads no environment variables: the listen port,
request size limit, fusion weights, and on-disk artifact names are all
fixed (see pkg/config).`,
		RunE: runServe,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("goat-searchd v%s (%s)\n", version, commit)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the goat-search daemon",
		RunE:  runServe,
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Default
	log.Info("Booting System...")

	rec := telemetry.New(config.TelemetrySnapshotPath)

	searcher, err := hybrid.Load(config.BM25PersistPath, config.VectorPersistPath, log, rec)
	if err != nil {
		log.Warnf("No existing index found. Starting Fresh. (%v)", err)
		searcher = hybrid.New(log, rec)
	} else {
		log.Info("Indexes loaded from disk successfully.")
	}

	srv := server.New(searcher, log)
	return srv.ListenAndServe()
}
