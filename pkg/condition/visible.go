package condition

// Visible evaluates a condition list as a logical AND in declaration order,
// short-circuiting on the first false so custom predicates run
// deterministically. An empty list is vacuously visible.
func Visible(conds []Condition, values map[string]any) (bool, error) {
	for _, c := range conds {
		ok, err := Evaluate(c, values)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
