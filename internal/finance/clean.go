package finance

// filterMissing drops null or non-positive closes, keeping timestamp and value arrays aligned.
func filterMissing(ts []int64, cl []*float64) ([]int64, []float64) {
	n := len(ts)
	if len(cl) < n {
		n = len(cl)
	}
	outTs := make([]int64, 0, n)
	outCl := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if cl[i] == nil || *cl[i] <= 0 {
			continue
		}
		outTs = append(outTs, ts[i])
		outCl = append(outCl, *cl[i])
	}
	return outTs, outCl
}
