package reporting

// ExpectedKeys expands per-dimension labels into every tuple a dense result
// must contain: each prefix combination padded with blanks (the subtotal rows)
// down to full-width combinations. Expansion stops at the first dimension with
// no known labels.
func ExpectedKeys(labels [][]string) [][]string {
	width := len(labels)
	var keys [][]string

	type frame struct{ path []string }
	stack := []frame{{path: nil}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(f.path) > 0 {
			keys = append(keys, padKey(f.path, width))
		}
		depth := len(f.path)
		if depth == width || len(labels[depth]) == 0 {
			continue
		}
		for i := len(labels[depth]) - 1; i >= 0; i-- {
			next := make([]string, depth, depth+1)
			copy(next, f.path)
			stack = append(stack, frame{path: append(next, labels[depth][i])})
		}
	}
	return keys
}

// Densify fills the expected tuples missing from the parsed vector with 0.
// With excludeEmptyRows, zero-valued non-root rows are dropped instead and no
// fill happens. A vector holding only the root row means nothing matched and
// is returned without fill. The all-blank root row is always kept with its own value.
// Subtotals reported by the backend are trusted as-is.
func Densify(vec *ValueVector, expected [][]string, excludeEmptyRows bool) *ValueVector {
	out := NewValueVector(vec.Width())
	rootKey := vec.RootKey()
	rootTotal, _ := vec.Get(rootKey...)
	out.Set(rootKey, rootTotal)

	for _, r := range vec.rows {
		if r.IsRoot() {
			continue
		}
		if excludeEmptyRows && r.Total != nil && *r.Total == 0 {
			continue
		}
		out.Set(r.Key, r.Total)
	}

	if excludeEmptyRows || out.Len() == 1 {
		return out
	}
	for _, key := range expected {
		if len(key) != out.Width() {
			continue
		}
		if _, ok := out.Get(key...); !ok {
			out.Set(key, Count(0))
		}
	}
	return out
}

// DimensionLabels lists the known labels of each dimension: the range ids of
// an elapsed-days dimension, or whatever options returns for a field.
func DimensionLabels(dims []Dimension, options func(field string) []string) [][]string {
	labels := make([][]string, len(dims))
	for i, d := range dims {
		if d.Elapsed != nil {
			for _, r := range d.Elapsed.Ranges {
				labels[i] = append(labels[i], r.ID)
			}
			continue
		}
		if options != nil {
			labels[i] = options(d.Field)
		}
	}
	return labels
}
