package schedule

// GenerateTilings enumerates the candidate tile shapes for a loop nest
// of extents s. allowSplits selects between the two modes: true
// considers every power-of-two split factor per dimension
// (used when the tiled Func is not already inside a realization),
// false only offers "tile of 1" and "tile of the whole extent" (used
// while sliding a store_at'd Func further inward).
//
// The dimension-0 (innermost) split is additionally bounded: a split
// factor is only offered if it leaves the inner loop with at least 16
// iterations, one full vector's width. The root-level parallelism floor
// is applied separately by the caller.
func GenerateTilings(s []int, d int, allowSplits bool) [][]int {
	if d == -1 {
		return [][]int{{}}
	}

	prefixes := GenerateTilings(s, d-1, allowSplits)

	var result [][]int
	for _, t := range prefixes {
		isOne, isFull := false, false
		if d == len(s)-1 {
			isOne, isFull = true, true
			for i := 0; i < d; i++ {
				if t[i] != 1 {
					isOne = false
				}
				if t[i] != s[i] {
					isFull = false
				}
			}
		}

		base := append(append([]int(nil), t...), 0)

		if !allowSplits {
			if !isOne {
				t1 := append([]int(nil), base...)
				t1[len(t1)-1] = 1
				result = append(result, t1)
			}
			if s[d] != 1 && !isFull {
				t2 := append([]int(nil), base...)
				t2[len(t2)-1] = s[d]
				result = append(result, t2)
			}
			continue
		}

		for outer := 1; outer <= s[d]; outer *= 2 {
			inner := (s[d] + outer - 1) / outer
			if isOne && outer == 1 {
				continue
			}
			if isFull && outer == s[d] {
				continue
			}
			if outer > inner || (d == 0 && inner < 16) {
				break
			}
			tn := append([]int(nil), base...)
			tn[len(tn)-1] = outer
			result = append(result, tn)
		}
		for inner := 1; inner < s[d]; inner *= 2 {
			outer := (s[d] + inner - 1) / inner
			if isOne && outer == 1 {
				continue
			}
			if isFull && outer == s[d] {
				continue
			}
			if d == 0 && inner < 16 {
				continue
			}
			if inner >= outer {
				break
			}
			tn := append([]int(nil), base...)
			tn[len(tn)-1] = outer
			result = append(result, tn)
		}
	}
	return result
}
