package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"strings"
	"text/template"
	"time"

	"github.com/plus3/dragonbubbles/ecs"
)

type Report struct {
	// Configuration
	Rounds   int
	Seconds  int
	TPS      int
	Strategy string
	Seed     uint64

	// Results
	TotalTime      time.Duration
	TickTime       Stats
	Scores         ScoreStats
	Rewards        int
	Penalties      int
	Systems        []ecs.SystemStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// ScoreStats summarizes final scores across rounds.
type ScoreStats struct {
	Min, Max int
	Mean     float64
	Median   float64
	Buckets  []Bucket
	Samples  []int
}

// Bucket is one histogram bar covering [Low, High].
type Bucket struct {
	Low, High int
	Count     int
}

func (s *ScoreStats) Finalize(buckets int) {
	if len(s.Samples) == 0 {
		return
	}
	sorted := slices.Sorted(slices.Values(s.Samples))
	s.Min, s.Max = sorted[0], sorted[len(sorted)-1]

	var total int
	for _, v := range sorted {
		total += v
	}
	s.Mean = float64(total) / float64(len(sorted))
	if n := len(sorted); n%2 == 1 {
		s.Median = float64(sorted[n/2])
	} else {
		s.Median = float64(sorted[n/2-1]+sorted[n/2]) / 2
	}

	width := max((s.Max-s.Min+buckets)/buckets, 1)
	s.Buckets = s.Buckets[:0]
	for low := s.Min; low <= s.Max; low += width {
		s.Buckets = append(s.Buckets, Bucket{Low: low, High: low + width - 1})
	}
	for _, v := range sorted {
		s.Buckets[(v-s.Min)/width].Count++
	}
}

// mergeSystems folds per-round scheduler stats into one row per system.
func mergeSystems(all []*ecs.SchedulerStats) []ecs.SystemStats {
	var merged []ecs.SystemStats
	index := map[string]int{}
	for _, stats := range all {
		for _, sys := range stats.Systems {
			i, ok := index[sys.Name]
			if !ok {
				i = len(merged)
				index[sys.Name] = i
				merged = append(merged, ecs.SystemStats{Name: sys.Name, MinDuration: sys.MinDuration})
			}
			m := &merged[i]
			m.ExecutionCount += sys.ExecutionCount
			m.TotalDuration += sys.TotalDuration
			m.MinDuration = min(m.MinDuration, sys.MinDuration)
			m.MaxDuration = max(m.MaxDuration, sys.MaxDuration)
		}
	}
	for i := range merged {
		if merged[i].ExecutionCount > 0 {
			merged[i].AvgDuration = merged[i].TotalDuration / time.Duration(merged[i].ExecutionCount)
		}
	}
	return merged
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Bubble Simulation Report

## Configuration
- **Rounds:** {{.Rounds}}
- **Round Length:** {{.Seconds}}s at {{.TPS}} ticks/s
- **Strategy:** {{.Strategy}}
- **Seed:** {{.Seed}}

## Scores
- **Min / Median / Max:** {{.Scores.Min}} / {{printf "%.1f" .Scores.Median}} / {{.Scores.Max}}
- **Mean:** {{printf "%.2f" .Scores.Mean}}
- **Collisions:** {{.Rewards}} rewards, {{.Penalties}} penalties
{{range .Scores.Buckets}}
    {{printf "%4d" .Low}}..{{printf "%-4d" .High}} {{bar .Count}} {{.Count}}{{end}}

## Tick Time
- **Total Wall Time:** {{.TotalTime}}
- **Ticks:** {{len .TickTime.Samples}}
- **Avg:** {{.TickTime.Avg}}
- **Min:** {{.TickTime.Min}}
- **Max:** {{.TickTime.Max}}

## Systems
| System | Runs | Avg | Max |
|---|---|---|---|
{{range .Systems}}| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}`

	peak := 0
	for _, b := range r.Scores.Buckets {
		peak = max(peak, b.Count)
	}

	fm := template.FuncMap{
		"bar": func(count int) string {
			if peak == 0 {
				return ""
			}
			return fmt.Sprintf("%-40s", strings.Repeat("#", count*40/peak))
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
