package score

// ChangeRate returns the change from old to new in percent. A change away
// from a zero base counts as 100.
func ChangeRate(new, old float64) float64 {
	if old == 0 {
		if new == 0 {
			return 0
		}
		return 100
	}

	return (new - old) / old * 100
}
