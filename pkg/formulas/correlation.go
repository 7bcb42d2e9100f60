package formulas

// Matrix is a labelled, symmetric correlation matrix.
type Matrix struct {
	Labels []string    `json:"labels"`
	Values [][]float64 `json:"values"`
}

// CorrelationMatrix correlates every pair of series named in order.
// Names missing from series are treated as empty and correlate as 0.
// The diagonal is 1 for series with variance and 0 for flat ones.
func CorrelationMatrix(series map[string][]float64, order []string) Matrix {
	n := len(order)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		a := series[order[i]]
		if Variance(a) > 0 {
			values[i][i] = 1
		}
		for j := i + 1; j < n; j++ {
			r := Correlation(a, series[order[j]])
			values[i][j] = r
			values[j][i] = r
		}
	}

	labels := make([]string, n)
	copy(labels, order)

	return Matrix{Labels: labels, Values: values}
}

// Get returns the coefficient for a pair of labels and whether both were present.
func (m Matrix) Get(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, l := range m.Labels {
		if l == a {
			i = k
		}
		if l == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}
