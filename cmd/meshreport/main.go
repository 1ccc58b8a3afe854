// meshreport loads the telemetry captured during one load-test run and
// writes the derived summaries back into the run directory as JSON
// artifacts, plus a short digest on stdout. All semantics live in
// src/telemetry and src/analysis; this binary is glue.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Anirudh-R-1201/CSCI599/src/analysis"
	"github.com/Anirudh-R-1201/CSCI599/src/logging"
	"github.com/Anirudh-R-1201/CSCI599/src/telemetry"
)

func main() {
	var dataDir, configPath, logLevel string
	flag.StringVar(&dataDir, "data", "", "Run directory containing the loadgen/ and network-analysis/ captures")
	flag.StringVar(&configPath, "config", "", "Optional YAML config path")
	flag.StringVar(&logLevel, "log-level", "", "Override log level (debug|info|warn|error)")
	flag.Parse()

	cfg := defaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = loadConfig(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logging.Init(cfg.LogLevel)

	if dataDir == "" {
		fmt.Fprintln(os.Stderr, "error: -data is required")
		os.Exit(1)
	}
	loadDir := filepath.Join(dataDir, cfg.LoadgenDir)
	netDir := filepath.Join(dataDir, cfg.NetworkDir)
	if missing(loadDir) && missing(netDir) {
		// Either source alone is recoverable; both absent means the path is
		// not a run directory at all.
		fmt.Fprintf(os.Stderr, "error: %s has neither %s/ nor %s/ data\n", dataDir, cfg.LoadgenDir, cfg.NetworkDir)
		os.Exit(1)
	}

	podSnaps := telemetry.LoadPodSnapshots(netDir)
	serviceNodes := telemetry.LoadServiceNodes(netDir)
	probes := telemetry.LoadProbes(filepath.Join(netDir, telemetry.ProbeFile))
	replicaSnaps := telemetry.LoadReplicaSnapshots(netDir)
	bursts := telemetry.LoadBursts(loadDir)

	placement := analysis.SummarizePlacement(podSnaps)
	paths := analysis.AggregatePaths(probes)
	locality := analysis.CorrelateLocality(probes, serviceNodes)
	scalingRows := analysis.CorrelateReplicas(replicaSnaps, probes)
	e2e := analysis.SummarizeE2E(bursts)

	if err := os.MkdirAll(netDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	artifacts := []struct {
		name    string
		payload any
	}{
		{"pod-placement-analysis.json", placement},
		{"service-to-service-latency-summary.json", paths},
		{"locality-summary.json", locality},
		{"latency-vs-replicas.json", scalingRows},
		{"e2e-latency-summary.json", e2e},
	}
	for _, a := range artifacts {
		path := filepath.Join(netDir, a.name)
		if err := writeJSON(path, a.payload); err != nil {
			fmt.Fprintf(os.Stderr, "error: write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Generated: %s\n", path)
	}

	fmt.Printf("Pod snapshots: %d (latest %s)\n", placement.SnapshotCount, orNA(placement.LatestTimestamp))
	fmt.Printf("Pods that moved nodes: %d\n", len(placement.PodMovements))
	fmt.Printf("Paths: %d, latency samples: %d\n", paths.PathCount, paths.TotalSamples)
	fmt.Printf("Intra-node ratio: %s\n", fmtOpt(locality.IntraNodeRatio))
	fmt.Printf("Replica/latency rows: %d\n", len(scalingRows))
	fmt.Printf("Bursts: %d, combined max QPS: %s\n", e2e.Cluster.BurstCount, fmtOpt(e2e.Cluster.CombinedActualQPSMax))
}

func missing(dir string) bool {
	info, err := os.Stat(dir)
	return err != nil || !info.IsDir()
}

func writeJSON(path string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

func fmtOpt(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}
