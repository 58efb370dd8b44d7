package main

import (
	"encoding/binary"
	"math/rand"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mergekv/mergekv/pkg/db"
	"github.com/mergekv/mergekv/pkg/metrics"
	"github.com/mergekv/mergekv/pkg/processor"
	"github.com/mergekv/mergekv/pkg/record"
	"github.com/mergekv/mergekv/pkg/utils"
	"github.com/mergekv/mergekv/pkg/writer"
)

var config = utils.NewDevelopmentConfig()

func main() {
	cmd := rootCmd()
	cmd.AddCommand(benchCmd())
	cmd.Execute()
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "mergekv",
		Long: "A client-side merge-buffering writer for row-oriented key-value stores.",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	return cmd
}

func benchCmd() *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Drive a synthetic counter workload through the buffered writer",
		RunE: func(cmd *cobra.Command, args []string) error {
			utils.DevelopmentMode()
			return runBench(seed)
		},
	}
	cmd.Flags().StringVar(&config.DBPath, "db_path", config.DBPath, "leveldb directory")
	cmd.Flags().StringVar(&config.MetricAddr, "metric_addr", config.MetricAddr, "prometheus listen address, empty to disable")
	cmd.Flags().IntVar(&config.MaxBufferedRecords, "max_buffered", config.MaxBufferedRecords, "buffered record limit before eviction")
	cmd.Flags().IntVar(&config.LogicalKeys, "keys", config.LogicalKeys, "distinct logical keys in the workload")
	cmd.Flags().IntVar(&config.Records, "records", config.Records, "records to write")
	cmd.Flags().Int64Var(&seed, "seed", 1, "workload random seed")
	return cmd
}

func runBench(seed int64) error {
	if config.MetricAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			http.ListenAndServe(config.MetricAddr, nil)
		}()
	}

	ldb, err := db.NewLDB(config.DBPath)
	if err != nil {
		return err
	}
	defer ldb.Close()

	w, err := writer.NewBufferedWriter(writer.NewDBStore(ldb), processor.Sum{}, writer.Config{
		MaxBufferedRecords: config.MaxBufferedRecords,
		Metrics:            metrics.NewWriterMetrics(),
	})
	if err != nil {
		return err
	}

	keys := make([][]byte, config.LogicalKeys)
	for i := range keys {
		id := uuid.New()
		keys[i] = id[:]
	}

	rng := rand.New(rand.NewSource(seed))
	one := make([]byte, 8)
	binary.BigEndian.PutUint64(one, 1)

	var seq uint64
	for i := 0; i < config.Records; i++ {
		seq++
		rec := record.New(record.NewKey(keys[rng.Intn(len(keys))], seq))
		rec.Set("hits", one)
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	utils.Logger().Info("bench done",
		zap.Int64("queued", w.QueuedCount()),
		zap.Int64("written", w.WrittenCount()))
	return nil
}
