package verify

// checkExhaustion runs pass 3: every MATCH's CASE arms must cover every
// tag in [0, VariantCount) exactly once. CaseOrderViolation (pass 2)
// already flags a tag landing in the wrong position; this pass flags the
// two ways a CASE sequence can still be unsound regardless of order:
// missing tags and tags repeated more than once.
func checkExhaustion(ctx ProgramContext) []Error {
	var errs []Error

	for _, m := range ctx.Matches {
		seen := make(map[uint16]int, len(m.Cases))
		for _, c := range m.Cases {
			seen[c.Tag]++
			if seen[c.Tag] > 1 {
				errs = append(errs, Error{Kind: DuplicateCase, At: c.CasePC, Tag: c.Tag})
			}
		}
		if uint16(len(seen)) != m.VariantCount {
			errs = append(errs, Error{
				Kind:          NonExhaustiveMatch,
				At:            m.MatchPC,
				ExpectedCount: m.VariantCount,
				FoundCount:    uint16(len(seen)),
			})
		}
	}

	return errs
}
