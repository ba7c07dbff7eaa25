// Package services: services/playlist.go
package services

import (
	"fmt"
	"regexp"
)

// playlistPattern accepts youtube.com/playlist?list=ID and youtu.be/...?...list=ID links.
var playlistPattern = regexp.MustCompile(`^(?:https?://)?(?:www\.)?(?:youtube\.com/playlist\?list=|youtu\.be/.*?[?&]list=)([a-zA-Z0-9_-]+)`)

// PlaylistEmbedURL extracts the playlist id from a YouTube link and returns the
// embeddable autoplaying URL for it.
func PlaylistEmbedURL(link string) (string, error) {
	m := playlistPattern.FindStringSubmatch(link)
	if m == nil {
		return "", NewError(InvalidMediaLink, MsgInvalidMediaLink)
	}
	return fmt.Sprintf("https://www.youtube.com/embed/videoseries?list=%s&autoplay=1&mute=1&loop=1", m[1]), nil
}
