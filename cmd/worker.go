package cmd

import (
	"sync"

	"maplemetrics/worker"
	"maplemetrics/worker/indexer"
	"maplemetrics/worker/refresher"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "run metrics workers",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		graphService := provideGraphService(database)
		metricsService := provideMetricsService(database)

		refreshJob := refresher.New(provideConfig(), provideMarketStore(database), metricsService)
		if err := refreshJob.Start(); err != nil {
			log.WithError(err).Panicln("start refresher")
		}
		defer refreshJob.Stop()

		workers := []worker.Worker{
			indexer.New(
				providePropertyStore(database),
				provideEventStore(database),
				provideTransactionStore(database),
				graphService,
				metricsService,
			),
		}

		wg := sync.WaitGroup{}
		for _, w := range workers {
			wg.Add(1)

			go func(worker worker.Worker) {
				defer wg.Done()
				worker.Run(ctx)
			}(w)
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
