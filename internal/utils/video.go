package utils

import "regexp"

var youTubeIDPattern = regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`)

// YouTubeID extracts the 11-character video id from a YouTube link.
// It returns "" when the link carries no recognizable id.
func YouTubeID(link string) string {
	m := youTubeIDPattern.FindStringSubmatch(link)
	if m == nil {
		return ""
	}
	return m[1]
}
