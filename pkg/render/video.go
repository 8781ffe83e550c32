package render

import (
	"context"
	"html/template"
	"net/url"
	"regexp"
	"strings"

	"github.com/rubiojr/pagebuilder/pkg/sanitize"
)

// Video providers recognised by ParseVideoURL.
const (
	VideoYouTube = "youtube"
	VideoVimeo   = "vimeo"
	VideoNative  = "native"
)

var (
	videoWidths  = []string{"normal", "narrow", "wide", "full"}
	aspectRatios = []string{"16-9", "4-3", "1-1"}
	youTubeID    = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// Video is a classified video URL. ID is empty when the provider was
// recognised but no id could be extracted.
type Video struct {
	Provider string
	ID       string
	URL      string
}

// EmbedURL returns the iframe source for hosted providers.
func (v Video) EmbedURL() string {
	if v.ID == "" {
		return ""
	}
	switch v.Provider {
	case VideoYouTube:
		return "https://www.youtube.com/embed/" + v.ID
	case VideoVimeo:
		return "https://player.vimeo.com/video/" + v.ID
	}
	return ""
}

// ParseVideoURL classifies raw by host substring and extracts the video id.
//
// YouTube ids come from the v query parameter, youtu.be/<id>, /embed/<id> or
// /shorts/<id> and must be 11 characters of [A-Za-z0-9_-]. Vimeo ids are the
// first all digit path segment. Anything else is a native video file.
func ParseVideoURL(raw string) Video {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)

	switch {
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return Video{Provider: VideoYouTube, ID: youTubeVideoID(raw), URL: raw}
	case strings.Contains(lower, "vimeo.com"):
		return Video{Provider: VideoVimeo, ID: vimeoVideoID(raw), URL: raw}
	default:
		return Video{Provider: VideoNative, URL: raw}
	}
}

func youTubeVideoID(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	var candidate string
	segments := pathSegments(u.Path)
	switch {
	case strings.Contains(strings.ToLower(u.Host), "youtu.be") && len(segments) > 0:
		candidate = segments[0]
	case u.Query().Get("v") != "":
		candidate = u.Query().Get("v")
	case len(segments) > 1 && (segments[0] == "embed" || segments[0] == "shorts"):
		candidate = segments[1]
	}

	if youTubeID.MatchString(candidate) {
		return candidate
	}
	return ""
}

func vimeoVideoID(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	for _, s := range pathSegments(u.Path) {
		if isDigits(s) {
			return s
		}
	}
	return ""
}

func pathSegments(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type videoConfig struct {
	VideoURL    string `mapstructure:"videoUrl"`
	Title       string `mapstructure:"title"`
	Width       string `mapstructure:"width"`
	AspectRatio string `mapstructure:"aspectRatio"`
}

// VideoRenderer embeds YouTube or Vimeo videos, or plays a video file.
type VideoRenderer struct{}

func NewVideoRenderer() *VideoRenderer { return &VideoRenderer{} }

func (r *VideoRenderer) Type() string { return "video" }

func (r *VideoRenderer) config(data map[string]any) (videoConfig, bool) {
	var cfg videoConfig
	if err := decode(data, &cfg); err != nil {
		return cfg, false
	}
	return cfg, !sanitize.IsBlank(cfg.VideoURL)
}

func (r *VideoRenderer) Validate(data map[string]any) bool {
	_, ok := r.config(data)
	return ok
}

func (r *VideoRenderer) Render(_ context.Context, data map[string]any) (template.HTML, error) {
	cfg, _ := r.config(data)
	video := ParseVideoURL(cfg.VideoURL)

	title := cfg.Title
	if title == "" {
		title = "Video"
	}

	return execute("video", map[string]any{
		"Provider": video.Provider,
		"Embed":    video.EmbedURL(),
		"Source":   video.URL,
		"Title":    title,
		"Width":    choice(cfg.Width, videoWidths, "normal"),
		"Ratio":    choice(cfg.AspectRatio, aspectRatios, "16-9"),
	})
}
