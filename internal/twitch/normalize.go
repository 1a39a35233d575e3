package twitch

import "strings"

// NormalizeLogin canonicalizes any user-entered channel identifier to the
// lowercase login the platform and the sample log key on. Accepts plain
// logins, "@name" mentions and full channel URLs.
func NormalizeLogin(raw string) string {
	login := strings.TrimSpace(raw)
	login = strings.ToLower(login)

	for _, prefix := range []string{"https://", "http://"} {
		login = strings.TrimPrefix(login, prefix)
	}
	login = strings.TrimPrefix(login, "www.")
	login = strings.TrimPrefix(login, "twitch.tv/")
	login = strings.TrimPrefix(login, "@")

	if i := strings.IndexAny(login, "/?"); i >= 0 {
		login = login[:i]
	}
	return strings.TrimSpace(login)
}
