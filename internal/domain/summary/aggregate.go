package summary

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rpggio/timestudy/internal/domain/observation"
)

// Summarize groups entries by track. Tracks without entries are absent.
func Summarize(entries []observation.Entry) map[int]TrackStat {
	out := make(map[int]TrackStat)
	for _, e := range entries {
		st := out[e.Track]
		st.Track = e.Track
		st.Count++
		st.TotalTime += e.DurationSeconds
		out[e.Track] = st
	}
	for track, st := range out {
		st.AvgTime = st.TotalTime / float64(st.Count)
		out[track] = st
	}
	return out
}

// Ordered returns the track stats sorted by ascending track.
func Ordered(stats map[int]TrackStat) []TrackStat {
	out := make([]TrackStat, 0, len(stats))
	for _, st := range stats {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Track < out[j].Track })
	return out
}

// StatusLine renders a one-line digest ordered by track.
func StatusLine(stats map[int]TrackStat) string {
	if len(stats) == 0 {
		return "Segment Totals: none"
	}
	var b strings.Builder
	b.WriteString("Segment Totals:")
	for _, st := range Ordered(stats) {
		fmt.Fprintf(&b, " [%s: %d entries, %.2fs total, %.2fs avg]",
			observation.ShortLabel(st.Track), st.Count, st.TotalTime, st.AvgTime)
	}
	return b.String()
}

// Caption is the two-line label shown beside a track lane.
func Caption(st TrackStat) string {
	return fmt.Sprintf("%d × %.2fs avg\n∑ %.1fs total", st.Count, st.AvgTime, st.TotalTime)
}

// ElementStats aggregates entries by element name, skipping blank names,
// ordered by total time descending.
func ElementStats(entries []observation.Entry) []ElementStat {
	groups := make(map[string][]float64)
	var order []string
	for _, e := range entries {
		name := strings.TrimSpace(e.ElementName)
		if name == "" {
			continue
		}
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], e.DurationSeconds)
	}

	out := make([]ElementStat, 0, len(order))
	for _, name := range order {
		ds := groups[name]
		st := ElementStat{Name: name, Count: len(ds), MinTime: ds[0], MaxTime: ds[0]}
		for _, d := range ds {
			st.TotalTime += d
			st.MinTime = math.Min(st.MinTime, d)
			st.MaxTime = math.Max(st.MaxTime, d)
		}
		st.AvgTime = st.TotalTime / float64(st.Count)
		st.StdDev = stdDev(ds, st.AvgTime)
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalTime > out[j].TotalTime })
	return out
}

func stdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return math.Sqrt(sum / float64(len(values)))
}

// Overall computes log-wide statistics. Timing figures only consider
// entries with a positive duration.
func Overall(entries []observation.Entry) Stats {
	st := Stats{Entries: len(entries)}
	names := make(map[string]struct{})
	positive := 0
	for _, e := range entries {
		if name := strings.TrimSpace(e.ElementName); name != "" {
			names[name] = struct{}{}
		}
		st.TotalStandardTime += e.DurationSeconds * e.PeopleCount()
		d := e.DurationSeconds
		if d <= 0 {
			continue
		}
		if positive == 0 || d < st.MinTime {
			st.MinTime = d
		}
		if d > st.MaxTime {
			st.MaxTime = d
		}
		st.TotalTime += d
		positive++
	}
	if positive > 0 {
		st.AvgTime = st.TotalTime / float64(positive)
	}
	st.UniqueElements = len(names)
	return st
}

var palette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A", "#98D8C8", "#F7DC6F",
	"#BB8FCE", "#85C1E2", "#F8B739", "#52B788", "#E76F51", "#2A9D8F",
}

// ElementColor assigns a stable palette colour based on the element's
// position in the library. Unknown elements get a neutral grey.
func ElementColor(name string, library []string) string {
	for i, el := range library {
		if el == name {
			return palette[i%len(palette)]
		}
	}
	return "#9E9E9E"
}
