package sizing

import "math"

// selectRecommended picks the index (into variants) of the recommended
// variant. strategy narrows the non-dominated frontier to a candidate
// subset: NPV_MAX considers every non-dominated point; CYCLES_MAX considers
// only the point(s) with the most annual cycles; BALANCED considers points
// whose annual cycles fall within [minCycles, maxCycles], or, if none do,
// the point(s) nearest that band's midpoint. Within the candidate subset
// the recommendation is the argmax of Score, ties broken by the lower
// PowerKW. Returns -1 if the frontier is empty.
func selectRecommended(variants []VariantResult, frontier []ParetoPoint, strategy Strategy, minCycles, maxCycles float64) int {
	live := nonDominated(frontier)
	if len(live) == 0 {
		return -1
	}

	var candidates []ParetoPoint
	switch strategy {
	case StrategyCyclesMax:
		candidates = pointsWithBestCycles(live)
	case StrategyBalanced:
		candidates = balancedCandidates(live, minCycles, maxCycles)
	default: // StrategyNPVMax
		candidates = live
	}

	return indexOfBestScore(variants, candidates)
}

func pointsWithBestCycles(live []ParetoPoint) []ParetoPoint {
	best := math.Inf(-1)
	for _, p := range live {
		if p.AnnualCycles > best {
			best = p.AnnualCycles
		}
	}
	var out []ParetoPoint
	for _, p := range live {
		if p.AnnualCycles == best {
			out = append(out, p)
		}
	}
	return out
}

// balancedCandidates returns the frontier points whose annual-cycle count
// falls within [minCycles, maxCycles]; if none qualify, it falls back to
// the point(s) whose cycle count is nearest the band's midpoint.
func balancedCandidates(live []ParetoPoint, minCycles, maxCycles float64) []ParetoPoint {
	var inBand []ParetoPoint
	for _, p := range live {
		if p.AnnualCycles >= minCycles && p.AnnualCycles <= maxCycles {
			inBand = append(inBand, p)
		}
	}
	if len(inBand) > 0 {
		return inBand
	}

	target := (minCycles + maxCycles) / 2
	bestDist := math.Inf(1)
	var out []ParetoPoint
	for _, p := range live {
		dist := math.Abs(p.AnnualCycles - target)
		switch {
		case dist < bestDist:
			bestDist = dist
			out = []ParetoPoint{p}
		case dist == bestDist:
			out = append(out, p)
		}
	}
	return out
}

// indexOfBestScore returns the index into variants of the candidate with
// the highest Score, ties broken by the lower PowerKW.
func indexOfBestScore(variants []VariantResult, candidates []ParetoPoint) int {
	best := -1
	for _, c := range candidates {
		idx := findVariantIndex(variants, c)
		if idx < 0 {
			continue
		}
		if best < 0 {
			best = idx
			continue
		}
		v, b := variants[idx], variants[best]
		if v.Score > b.Score || (v.Score == b.Score && v.PowerKW < b.PowerKW) {
			best = idx
		}
	}
	return best
}

func findVariantIndex(variants []VariantResult, p ParetoPoint) int {
	for i, v := range variants {
		if v.PowerKW == p.PowerKW && v.EnergyKWh == p.EnergyKWh {
			return i
		}
	}
	return -1
}
