package matrix

// ReconcileTotal resolves the authoritative total from a client-declared
// value and the server's own derivation, all in cents.
//
// A stale client that missed the Flex discount declares the undiscounted
// sum; when that happens (within one cent) the server substitutes its
// discounted figure so totals can never be forged upward. Any other
// positive declared value is a deliberate override and passes through
// verbatim. Missing or non-positive values fall back to the server's
// figure.
func ReconcileTotal(declaredCents int64, rawCents, discountedCents int64) int64 {
	if declaredCents <= 0 {
		return discountedCents
	}
	discountApplies := discountedCents != rawCents
	if discountApplies && abs64(declaredCents-rawCents) <= 1 {
		return discountedCents
	}
	return declaredCents
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
