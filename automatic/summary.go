package automatic

import (
	"fmt"
	"io"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"

	"github.com/twai/twai/stats"
)

const (
	histogramBins  = 10
	histogramWidth = 40
)

// Summary aggregates a batch of games.
type Summary struct {
	RunID  string
	Games  int
	Lines  stats.Statistic
	Pieces stats.Statistic
	// Clears sums the per-game clear counts.
	Clears    [5]int
	ToppedOut int
	// LineQuantiles holds the 10th, 50th and 90th percentiles of lines.
	LineQuantiles []float64
	Histogram     histogram.Histogram
}

// Summarize builds a summary of results. The order of results does not
// matter.
func Summarize(results []GameResult) *Summary {
	s := &Summary{Games: len(results)}
	for _, r := range results {
		s.Lines.Push(float64(r.Lines))
		s.Pieces.Push(float64(r.Pieces))
		for n := range s.Clears {
			s.Clears[n] += r.Clears[n]
		}
		if r.ToppedOut {
			s.ToppedOut++
		}
	}
	lines := lo.Map(results, func(r GameResult, _ int) float64 { return float64(r.Lines) })
	s.LineQuantiles = stats.Quantiles(lines, 0.1, 0.5, 0.9)
	s.Histogram = histogram.Hist(histogramBins, lines)
	return s
}

// Fprint writes the summary, with a histogram of lines cleared, to w.
func (s *Summary) Fprint(w io.Writer) error {
	if s.Games == 0 {
		_, err := fmt.Fprintln(w, "No games played.")
		return err
	}
	var b strings.Builder
	if s.RunID != "" {
		fmt.Fprintf(&b, "Run: %s\n", s.RunID)
	}
	fmt.Fprintf(&b, "Games played: %d (topped out: %d)\n", s.Games, s.ToppedOut)
	lo95, hi95 := s.Lines.ConfidenceInterval(95)
	fmt.Fprintf(&b, "Lines  mean: %.3f  stdev: %.3f  95%% CI: [%.3f, %.3f]\n",
		s.Lines.Mean(), s.Lines.Stdev(), lo95, hi95)
	fmt.Fprintf(&b, "Lines  min: %.0f  p10: %.0f  median: %.0f  p90: %.0f  max: %.0f\n",
		s.Lines.Min(), s.LineQuantiles[0], s.LineQuantiles[1], s.LineQuantiles[2], s.Lines.Max())
	fmt.Fprintf(&b, "Pieces mean: %.3f  stdev: %.3f\n", s.Pieces.Mean(), s.Pieces.Stdev())
	fmt.Fprintf(&b, "Clears singles: %d  doubles: %d  triples: %d  tetrises: %d\n",
		s.Clears[1], s.Clears[2], s.Clears[3], s.Clears[4])
	b.WriteString("Lines cleared:\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	return histogram.Fprint(w, s.Histogram, histogram.Linear(histogramWidth))
}

func (s *Summary) String() string {
	var b strings.Builder
	s.Fprint(&b)
	return b.String()
}
