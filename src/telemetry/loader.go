package telemetry

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/Anirudh-R-1201/CSCI599/src/logging"
)

// Artifact naming conventions of the capture pipeline.
const (
	PodSnapshotPrefix = "pod-network-"
	EndpointPrefix    = "service-endpoints-"
	ReplicaPrefix     = "hpa-"
	ProbeFile         = "service-to-service-latency.jsonl"
)

// The loaders below share one error policy: a missing directory or file means
// "zero records of that kind" and is not an error, while an individual
// malformed file or line is skipped with a warning. Results come back in
// filename order; capture names sort chronologically, which is the order the
// placement and scaling aggregations rely on.

// LoadPodSnapshots reads every pod-network-*.json under dir.
func LoadPodSnapshots(dir string) []PodSnapshot {
	var snaps []PodSnapshot
	for _, path := range sortedGlob(dir, PodSnapshotPrefix+"*.json") {
		data, err := os.ReadFile(path)
		if err != nil {
			logging.L.Warn("skipping unreadable pod snapshot", zap.String("file", path), zap.Error(err))
			continue
		}
		snap, err := ParsePodSnapshot(data, TimestampFromFilename(path, PodSnapshotPrefix))
		if err != nil {
			logging.L.Warn("skipping malformed pod snapshot", zap.String("file", path), zap.Error(err))
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps
}

// LoadServiceNodes merges every service-endpoints-*.json under dir into one
// service -> known-node-set view covering the whole run.
func LoadServiceNodes(dir string) ServiceNodes {
	nodes := make(ServiceNodes)
	for _, path := range sortedGlob(dir, EndpointPrefix+"*.json") {
		data, err := os.ReadFile(path)
		if err != nil {
			logging.L.Warn("skipping unreadable endpoint snapshot", zap.String("file", path), zap.Error(err))
			continue
		}
		if err := MergeEndpoints(data, nodes); err != nil {
			logging.L.Warn("skipping malformed endpoint snapshot", zap.String("file", path), zap.Error(err))
		}
	}
	return nodes
}

// LoadReplicaSnapshots reads every hpa-*.json under dir. Files whose
// timestamp token is not a well-formed numeric/date id are discarded, as are
// snapshots with no autoscalers in them.
func LoadReplicaSnapshots(dir string) []ReplicaSnapshot {
	var snaps []ReplicaSnapshot
	for _, path := range sortedGlob(dir, ReplicaPrefix+"*.json") {
		ts := TimestampFromFilename(path, ReplicaPrefix)
		if !ValidSnapshotStamp(ts) {
			logging.L.Debug("discarding autoscaler snapshot with malformed timestamp", zap.String("file", path))
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			logging.L.Warn("skipping unreadable autoscaler snapshot", zap.String("file", path), zap.Error(err))
			continue
		}
		snap, err := ParseReplicaSnapshot(data, ts)
		if err != nil {
			logging.L.Warn("skipping malformed autoscaler snapshot", zap.String("file", path), zap.Error(err))
			continue
		}
		if len(snap.Replicas) == 0 {
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps
}

// LoadProbes reads the line-delimited probe records at path. Blank lines are
// ignored; undecodable lines are skipped and reported once in aggregate so a
// noisy capture does not flood the log.
func LoadProbes(path string) []Probe {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.L.Warn("cannot open probe file", zap.String("file", path), zap.Error(err))
		}
		return nil
	}
	defer f.Close()

	var probes []Probe
	skipped := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		p, err := ParseProbeLine(line)
		if err != nil {
			skipped++
			continue
		}
		probes = append(probes, p)
	}
	if err := scanner.Err(); err != nil {
		logging.L.Warn("probe file read stopped early", zap.String("file", path), zap.Error(err))
	}
	if skipped > 0 {
		logging.L.Warn("skipped undecodable probe lines", zap.String("file", path), zap.Int("lines", skipped))
	}
	return probes
}

// LoadBursts reads every fortio-burst-*-*.json under dir, sorted by burst
// index then filename.
func LoadBursts(dir string) []Burst {
	var bursts []Burst
	for _, path := range sortedGlob(dir, "fortio-burst-*-*.json") {
		data, err := os.ReadFile(path)
		if err != nil {
			logging.L.Warn("skipping unreadable burst result", zap.String("file", path), zap.Error(err))
			continue
		}
		b, err := ParseBurst(data, path)
		if err != nil {
			logging.L.Warn("skipping malformed burst result", zap.String("file", path), zap.Error(err))
			continue
		}
		bursts = append(bursts, b)
	}
	sort.Slice(bursts, func(i, j int) bool {
		if bursts[i].Index != bursts[j].Index {
			return bursts[i].Index < bursts[j].Index
		}
		return bursts[i].File < bursts[j].File
	})
	return bursts
}

func sortedGlob(dir, pattern string) []string {
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil
	}
	sort.Strings(paths)
	return paths
}
