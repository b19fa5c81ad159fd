package wealth

import "math/rand/v2"

// Candidate picks for each bucket.
var (
	HighRiskPicks = []string{"BTC", "ETH", "TSLA", "DOGE", "SOL"}
	LowRiskPicks  = []string{"AAPL", "MSFT", "BND", "VTI", "GOOGL"}
)

// Picks suggests 3 high risk and 2 low risk investments drawn from the
// candidate lists. Pass a seeded rand to get reproducible picks.
func Picks(rnd *rand.Rand) (high, low []string) {
	return sample(rnd, HighRiskPicks, 3), sample(rnd, LowRiskPicks, 2)
}

// sample returns n distinct elements of list in random order.
func sample(rnd *rand.Rand, list []string, n int) []string {
	n = min(n, len(list))
	perm := rnd.Perm(len(list))
	res := make([]string, n)
	for i := range res {
		res[i] = list[perm[i]]
	}
	return res
}
