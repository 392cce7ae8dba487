package sizing

// buildParetoFrontier marks each point dominated iff some other point is at
// least as good on both NPV and annual cycles, with a strict improvement on
// at least one. Points are returned in the same order they were given, each
// annotated with Dominated.
func buildParetoFrontier(points []ParetoPoint) []ParetoPoint {
	out := make([]ParetoPoint, len(points))
	copy(out, points)

	for i := range out {
		for j := range out {
			if i == j {
				continue
			}
			if dominates(out[j], out[i]) {
				out[i].Dominated = true
				break
			}
		}
	}
	return out
}

// dominates reports whether a dominates b: a is no worse on both objectives
// and strictly better on at least one.
func dominates(a, b ParetoPoint) bool {
	npvGE := a.NPV >= b.NPV
	cyclesGE := a.AnnualCycles >= b.AnnualCycles
	if !npvGE || !cyclesGE {
		return false
	}
	return a.NPV > b.NPV || a.AnnualCycles > b.AnnualCycles
}

func nonDominated(points []ParetoPoint) []ParetoPoint {
	var out []ParetoPoint
	for _, p := range points {
		if !p.Dominated {
			out = append(out, p)
		}
	}
	return out
}
