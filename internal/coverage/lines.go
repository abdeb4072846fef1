package coverage

import "golang.org/x/sync/errgroup"

// minLinesPerWorker keeps small texts on the calling goroutine.
const minLinesPerWorker = 64

// LineBreakdown computes the occurrence-weighted coverage of every line of
// text against set, in line order. Lines without Han characters are marked
// not applicable and carry zero weight.
//
// With workers > 1 the lines are split into contiguous chunks scored
// concurrently; each line writes only its own slot, so the output is the
// same for any worker count.
func LineBreakdown(text Text, set Membership, workers int) []LineCoverage {
	out := make([]LineCoverage, len(text))
	if len(text) == 0 {
		return out
	}

	if workers <= 1 || len(text) < 2*minLinesPerWorker {
		scoreLines(text, set, out, 0, len(text))
		return out
	}

	chunk := max((len(text)+workers-1)/workers, minLinesPerWorker)
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < len(text); lo += chunk {
		hi := min(lo+chunk, len(text))
		g.Go(func() error {
			scoreLines(text, set, out, lo, hi)
			return nil
		})
	}
	// Scoring cannot fail; Wait only joins the goroutines.
	_ = g.Wait()
	return out
}

func scoreLines(text Text, set Membership, out []LineCoverage, lo, hi int) {
	for i := lo; i < hi; i++ {
		out[i] = scoreLine(i+1, text[i], set)
	}
}

func scoreLine(number int, line string, set Membership) LineCoverage {
	lc := LineCoverage{Number: number, Text: line}
	for _, r := range line {
		if !IsHan(r) {
			continue
		}
		lc.Han++
		if set.Contains(r) {
			lc.Known++
		}
	}
	lc.Applicable = lc.Han > 0
	lc.Percent = percent(lc.Known, lc.Han)
	return lc
}

// WeightedLineCoverage averages per-line percentages weighted by each line's
// Han count. It equals the whole-text occurrence coverage of the same scope.
func WeightedLineCoverage(lines []LineCoverage) float64 {
	var weighted float64
	total := 0
	for _, lc := range lines {
		if !lc.Applicable {
			continue
		}
		weighted += lc.Percent * float64(lc.Han)
		total += lc.Han
	}
	if total == 0 {
		return 100
	}
	return weighted / float64(total)
}
