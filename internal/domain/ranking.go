package domain

import "math"

// TruePercentage computes the "true" share of the vote in whole percent.
// A poll with no votes reads exactly 50; otherwise the ratio is rounded
// half-up. The legend share is always 100 minus this value.
func TruePercentage(trueVotes, legendVotes int) int {
	total := trueVotes + legendVotes
	if total == 0 {
		return 50
	}
	return int(math.Floor(float64(trueVotes)/float64(total)*100 + 0.5))
}
