package utils

import "math/rand/v2"

// userAgents are real browser strings rotated per request. The source site
// turns away the default Go and colly identities.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

func RandomUserAgent() string {
	return userAgents[rand.IntN(len(userAgents))]
}

// IsBrowserUserAgent reports whether ua is one of the rotated identities.
func IsBrowserUserAgent(ua string) bool {
	for _, known := range userAgents {
		if ua == known {
			return true
		}
	}
	return false
}
