package models

import "regexp"

var mentionRE = regexp.MustCompile(`@([A-Za-z0-9_.]{2,64})`)

// ParseMentions extracts the usernames tagged in a text via @username
// syntax, in order of first appearance, without duplicates.
func ParseMentions(text string) []string {
	seen := make(map[string]bool)
	var usernames []string
	for _, m := range mentionRE.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		usernames = append(usernames, name)
	}
	return usernames
}
