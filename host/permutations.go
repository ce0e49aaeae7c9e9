package host

// Permutations returns every ordering of values, generated with Heap's
// algorithm. The input slice is not modified.
func Permutations(values []int64) [][]int64 {
	a := make([]int64, len(values))
	copy(a, values)

	var out [][]int64
	emit := func() {
		p := make([]int64, len(a))
		copy(p, a)
		out = append(out, p)
	}

	c := make([]int, len(a))
	emit()

	for i := 0; i < len(a); {
		if c[i] < i {
			if i%2 == 0 {
				a[0], a[i] = a[i], a[0]
			} else {
				a[c[i]], a[i] = a[i], a[c[i]]
			}
			emit()
			c[i]++
			i = 0
		} else {
			c[i] = 0
			i++
		}
	}

	return out
}
