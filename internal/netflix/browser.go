package netflix

// Browser retrieves the challenge code rendered on a Netflix travel/verify page.
type Browser interface {
	FetchChallengeCode(link, traceID string) (string, error)
}
