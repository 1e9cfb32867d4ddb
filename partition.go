package chonker

// indexRange is a half-open [start, end) over the length-sorted sequence
// list, defining one batch's membership before collation.
type indexRange struct {
	start, end int
}

// cutRanges walks lengths (sorted descending) and cuts them into candidate
// batch ranges under the configured sizing mode, then applies the padding
// budget policy to each candidate. It returns the realized ranges and the
// number of members discarded by drop policies.
//
// Every range draws from a contiguous block of the sorted order, so the
// first member of a range is always its longest.
func cutRanges(lengths []int, batchSize int, cfg *buildConfig) (ranges []indexRange, dropped int) {
	n := len(lengths)
	cur := 0
	for cur < n {
		var next int
		switch cfg.batchBy {
		case BySequences:
			next = cur + batchSize
		case ByTokens:
			longest := lengths[cur]
			if longest <= 0 {
				// The sorted tail is all empty sequences; they fit any
				// budget, so take the whole tail as one batch.
				next = n
			} else {
				perBatch := batchSize / longest
				if perBatch < 1 {
					perBatch = 1
				}
				next = cur + perBatch
			}
		}
		if next > n {
			next = n
		}

		if cfg.maxPadSet {
			// legalNext is the first index whose pad amount, relative to
			// the range's longest member, would exceed the budget.
			legalNext := cur + 1
			for legalNext < next && lengths[cur]-lengths[legalNext] <= cfg.maxPadding {
				legalNext++
			}
			if legalNext < next {
				switch cfg.strategy {
				case Split:
					// Keep the legal prefix; the remainder starts a new
					// candidate range.
					ranges = append(ranges, indexRange{cur, legalNext})
					cur = legalNext
					continue
				case SoftDrop:
					// Keep the legal prefix, discard the violating
					// remainder of this candidate range, and resume at
					// next. The remainder is abandoned as a whole, not
					// member by member.
					ranges = append(ranges, indexRange{cur, legalNext})
					dropped += next - legalNext
					cur = next
					continue
				case HardDrop:
					// Discard the entire candidate range, legal prefix
					// included.
					dropped += next - cur
					cur = next
					continue
				}
			}
		}

		ranges = append(ranges, indexRange{cur, next})
		cur = next
	}
	return ranges, dropped
}
