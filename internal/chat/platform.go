package chat

import "strings"

// Platform is one of the CDP vendors the assistant knows about. The empty
// string means no vendor is selected.
type Platform string

const (
	PlatformSegment   Platform = "Segment"
	PlatformMParticle Platform = "mParticle"
	PlatformLytics    Platform = "Lytics"
	PlatformZeotap    Platform = "Zeotap"
	PlatformOther     Platform = "Other"
)

// Platforms lists the selectable vendors in display order.
func Platforms() []Platform {
	return []Platform{PlatformSegment, PlatformMParticle, PlatformLytics, PlatformZeotap}
}

// ParsePlatform maps stored or typed input onto the closed vendor set.
func ParsePlatform(s string) (Platform, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "segment":
		return PlatformSegment, true
	case "mparticle":
		return PlatformMParticle, true
	case "lytics":
		return PlatformLytics, true
	case "zeotap":
		return PlatformZeotap, true
	case "other":
		return PlatformOther, true
	}
	return "", false
}

func (p Platform) String() string { return string(p) }

// Key is the lowercase identifier used by the knowledge base.
func (p Platform) Key() string { return strings.ToLower(string(p)) }

// Wire is the value carried in answer-service requests. An unselected
// platform maps to Other.
func (p Platform) Wire() string {
	if p == "" {
		return string(PlatformOther)
	}
	return string(p)
}
