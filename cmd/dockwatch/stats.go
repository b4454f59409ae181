package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dockwatch/dockwatch/internal/domain"
	"github.com/dockwatch/dockwatch/internal/metrics"
	"github.com/dockwatch/dockwatch/internal/stream"
)

var statsCmd = &cobra.Command{
	Use:   "stats [container]",
	Short: "Stream resource usage with windowed aggregates as JSON lines",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, opts := setup(cmd)

		subject := ""
		if len(args) == 1 {
			subject = args[0]
		}
		window := time.Duration(cfg.Stats.WindowSeconds) * time.Second

		ctx, cancel := signalContext(cmd.Context(), log)
		defer cancel()

		s, err := stream.Stats(ctx, subject, opts)
		if err != nil {
			return fmt.Errorf("opening stats stream: %w", err)
		}
		defer s.Close()

		// One aggregator per subject; the all-containers stream interleaves
		// snapshots from every running container.
		aggs := make(map[string]*metrics.Aggregator)

		enc := json.NewEncoder(cmd.OutOrStdout())
		for {
			sample, err := s.Next(ctx)
			switch {
			case err == nil:
				agg, ok := aggs[sample.ID]
				if !ok {
					agg = metrics.New(sample.ID, cfg.Stats.HistorySize)
					aggs[sample.ID] = agg
				}
				agg.AddSample(sample)
				if encErr := enc.Encode(printableStats(sample, agg, window)); encErr != nil {
					return encErr
				}
			case errors.Is(err, stream.ErrStreamEnded), errors.Is(err, context.Canceled):
				return nil
			default:
				var perr *stream.ParseError
				if errors.As(err, &perr) {
					continue
				}
				return err
			}
		}
	},
}

type statsOutput struct {
	ID         string  `json:"id"`
	Name       string  `json:"name,omitempty"`
	Read       string  `json:"read"`
	CPUPercent float64 `json:"cpu_percent"`
	MemUsed    uint64  `json:"mem_used_bytes"`
	MemPercent float64 `json:"mem_percent"`
	NetRx      uint64  `json:"net_rx_bytes"`
	NetTx      uint64  `json:"net_tx_bytes"`
	BlkRead    uint64  `json:"blk_read_bytes"`
	BlkWrite   uint64  `json:"blk_write_bytes"`
	PIDs       uint64  `json:"pids"`

	WindowSeconds  int     `json:"window_seconds"`
	CPUAvgPercent  float64 `json:"cpu_avg_percent"`
	CPUPeakPercent float64 `json:"cpu_peak_percent"`
	NetRxDelta     float64 `json:"net_rx_delta_bytes"`
	NetTxDelta     float64 `json:"net_tx_delta_bytes"`
}

func printableStats(s domain.StatsSample, agg *metrics.Aggregator, window time.Duration) statsOutput {
	return statsOutput{
		ID:         s.ID,
		Name:       s.Name,
		Read:       s.Read.Format(time.RFC3339Nano),
		CPUPercent: metrics.CPUPercent(s),
		MemUsed:    metrics.MemoryUsedBytes(s),
		MemPercent: metrics.MemoryPercent(s),
		NetRx:      metrics.NetworkRxBytes(s),
		NetTx:      metrics.NetworkTxBytes(s),
		BlkRead:    metrics.BlkioBytes(s, domain.BlkioRead),
		BlkWrite:   metrics.BlkioBytes(s, domain.BlkioWrite),
		PIDs:       s.PIDs,

		WindowSeconds:  int(window.Seconds()),
		CPUAvgPercent:  agg.Average(metrics.MetricCPUPercent, window),
		CPUPeakPercent: agg.Peak(metrics.MetricCPUPercent, window),
		NetRxDelta:     agg.TotalDelta(metrics.MetricNetworkRx, window),
		NetTxDelta:     agg.TotalDelta(metrics.MetricNetworkTx, window),
	}
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
