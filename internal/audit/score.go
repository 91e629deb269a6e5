package audit

// scorePenalty is the score cost per average issue per page.
const scorePenalty = 5

// Score computes the 0-100 run score from aggregate issue counts. An
// empty run scores 100; the score decreases with average issue density
// and never goes below 0.
func Score(totalIssues, pagesAnalyzed int) int {
	if pagesAnalyzed == 0 {
		return 100
	}

	penalty := float64(totalIssues) / float64(pagesAnalyzed) * scorePenalty
	score := int(100 - penalty)
	if score < 0 {
		return 0
	}
	return score
}
