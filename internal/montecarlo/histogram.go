package montecarlo

import "pvbess/internal/timeutil"

func computePercentiles(data []float64) Percentiles {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	return Percentiles{
		P5:  timeutil.Percentile(sorted, 5),
		P10: timeutil.Percentile(sorted, 10),
		P25: timeutil.Percentile(sorted, 25),
		P50: timeutil.Percentile(sorted, 50),
		P75: timeutil.Percentile(sorted, 75),
		P90: timeutil.Percentile(sorted, 90),
		P95: timeutil.Percentile(sorted, 95),
	}
}

// computeHistogram buckets data into nBins equal-width bins spanning
// [min,max].
func computeHistogram(data []float64, nBins int) Histogram {
	if nBins < 1 {
		nBins = 50
	}
	if len(data) == 0 {
		return Histogram{}
	}

	min, max := data[0], data[0]
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		max = min + 1
	}

	width := (max - min) / float64(nBins)
	edges := make([]float64, nBins+1)
	for i := range edges {
		edges[i] = min + float64(i)*width
	}
	counts := make([]int, nBins)
	for _, v := range data {
		bin := int((v - min) / width)
		if bin >= nBins {
			bin = nBins - 1
		}
		if bin < 0 {
			bin = 0
		}
		counts[bin]++
	}
	centers := make([]float64, nBins)
	for i := range centers {
		centers[i] = (edges[i] + edges[i+1]) / 2
	}

	return Histogram{BinEdges: edges, Counts: counts, BinCenters: centers}
}
