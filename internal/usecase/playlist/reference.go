package playlist

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	playlistIDPattern = regexp.MustCompile(`^(FL|PL|UU|LL|RD)[a-zA-Z0-9-_]{16,41}$`)
	albumIDPattern    = regexp.MustCompile(`^OLAK5uy_[a-zA-Z0-9-_]{33}$`)
	channelIDPattern  = regexp.MustCompile(`^UC[a-zA-Z0-9-_]{22,32}$`)
)

// baseReferenceURL is what relative references are resolved against.
const baseReferenceURL = "https://www.youtube.com/playlist?"

var knownHosts = map[string]struct{}{
	"www.youtube.com":   {},
	"youtube.com":       {},
	"music.youtube.com": {},
}

// ProfileKind is the URL flavour of a vanity channel link.
type ProfileKind string

const (
	ProfileUser   ProfileKind = "user"
	ProfileCustom ProfileKind = "c"
)

// reference is the parsed form of a caller-supplied playlist reference.
// Exactly one of the concrete types below implements it.
type reference interface {
	isReference()
}

// playlistRef is already a canonical playlist or album ID.
type playlistRef struct {
	id string
}

// channelRef is a channel ID whose uploads list is wanted.
type channelRef struct {
	channelID string
}

// profileRef is a vanity channel link that needs one profile fetch.
type profileRef struct {
	kind ProfileKind
	name string
	raw  string
}

func (playlistRef) isReference() {}
func (channelRef) isReference()  {}
func (profileRef) isReference()  {}

func isPlaylistID(s string) bool {
	return playlistIDPattern.MatchString(s) || albumIDPattern.MatchString(s)
}

// IsChannelID reports whether s has the shape of a channel ID.
func IsChannelID(s string) bool {
	return channelIDPattern.MatchString(s)
}

// UploadsPlaylistID maps a channel ID onto the ID of its uploads playlist.
func UploadsPlaylistID(channelID string) string {
	return "UU" + channelID[2:]
}

// parseReference classifies ref without touching the network.
func parseReference(ref string) (reference, error) {
	if ref == "" {
		return nil, invalidInput(nil)
	}
	if isPlaylistID(ref) {
		return playlistRef{id: ref}, nil
	}
	if IsChannelID(ref) {
		return channelRef{channelID: ref}, nil
	}

	base, _ := url.Parse(baseReferenceURL)
	parsed, err := base.Parse(ref)
	if err != nil {
		return nil, referenceError(ErrUnknownLink)
	}
	if _, ok := knownHosts[parsed.Host]; !ok {
		return nil, referenceError(ErrUnknownLink)
	}

	query := parsed.Query()
	if query.Has("list") {
		list := query.Get("list")
		switch {
		case isPlaylistID(list):
			return playlistRef{id: list}, nil
		case strings.HasPrefix(list, "RD"):
			return nil, referenceError(ErrMixesNotSupported)
		default:
			return nil, referenceError(ErrInvalidListQuery)
		}
	}

	parts := strings.Split(strings.TrimPrefix(parsed.Path, "/"), "/")
	if len(parts) < 2 {
		return nil, missingIDError(ref)
	}
	for _, p := range parts {
		if p == "" {
			return nil, missingIDError(ref)
		}
	}

	kind, id := parts[len(parts)-2], parts[len(parts)-1]
	switch kind {
	case "channel":
		if IsChannelID(id) {
			return channelRef{channelID: id}, nil
		}
	case string(ProfileUser), string(ProfileCustom):
		return profileRef{kind: ProfileKind(kind), name: id, raw: ref}, nil
	}
	return nil, missingIDError(ref)
}

// ValidateID reports whether ref could be resolved to a playlist ID. Vanity
// channel links are accepted without being fetched.
func ValidateID(ref string) bool {
	_, err := parseReference(ref)
	return err == nil
}
