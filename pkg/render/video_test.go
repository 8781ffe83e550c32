package render

import (
	"context"
	"testing"
)

func TestParseVideoURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		provider string
		id       string
	}{
		{"youtube watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", VideoYouTube, "dQw4w9WgXcQ"},
		{"youtube watch extra params", "https://youtube.com/watch?feature=share&v=dQw4w9WgXcQ&t=10", VideoYouTube, "dQw4w9WgXcQ"},
		{"youtu.be", "https://youtu.be/dQw4w9WgXcQ?si=abc", VideoYouTube, "dQw4w9WgXcQ"},
		{"youtube embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", VideoYouTube, "dQw4w9WgXcQ"},
		{"youtube shorts", "https://www.youtube.com/shorts/a1B2c3D4e5_", VideoYouTube, "a1B2c3D4e5_"},
		{"youtube id too short", "https://www.youtube.com/watch?v=short", VideoYouTube, ""},
		{"youtube id with bad chars", "https://youtu.be/<script>abc", VideoYouTube, ""},
		{"youtube channel", "https://www.youtube.com/@community", VideoYouTube, ""},
		{"vimeo", "https://vimeo.com/76979871", VideoVimeo, "76979871"},
		{"vimeo channel", "https://vimeo.com/channels/staffpicks/123456", VideoVimeo, "123456"},
		{"vimeo without id", "https://vimeo.com/about", VideoVimeo, ""},
		{"native mp4", "https://cdn.example.org/intro.mp4", VideoNative, ""},
		{"uppercase host", "HTTPS://WWW.YOUTUBE.COM/watch?v=dQw4w9WgXcQ", VideoYouTube, "dQw4w9WgXcQ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ParseVideoURL(tt.url)
			if v.Provider != tt.provider {
				t.Errorf("provider = %q, want %q", v.Provider, tt.provider)
			}
			if v.ID != tt.id {
				t.Errorf("id = %q, want %q", v.ID, tt.id)
			}
		})
	}
}

func TestEmbedURL(t *testing.T) {
	if got := (Video{Provider: VideoYouTube, ID: "dQw4w9WgXcQ"}).EmbedURL(); got != "https://www.youtube.com/embed/dQw4w9WgXcQ" {
		t.Errorf("unexpected youtube embed %q", got)
	}
	if got := (Video{Provider: VideoVimeo, ID: "42"}).EmbedURL(); got != "https://player.vimeo.com/video/42" {
		t.Errorf("unexpected vimeo embed %q", got)
	}
	if got := (Video{Provider: VideoYouTube}).EmbedURL(); got != "" {
		t.Errorf("expected empty embed without id, got %q", got)
	}
}

func TestVideoRender(t *testing.T) {
	r := NewVideoRenderer()
	ctx := context.Background()

	if r.Validate(map[string]any{"videoUrl": " "}) {
		t.Error("expected blank videoUrl to fail validation")
	}

	yt := renderBlock(t, ctx, r, map[string]any{"videoUrl": "https://youtu.be/dQw4w9WgXcQ", "aspectRatio": "4-3", "width": "wide"})
	assertContains(t, yt, `<iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ"`, "pb-ratio-4-3", "pb-video-wide")

	broken := renderBlock(t, ctx, r, map[string]any{"videoUrl": "https://www.youtube.com/watch?v=nope"})
	assertContains(t, broken, `class="pb-video-frame pb-ratio-16-9"`, `data-provider="youtube"`)
	assertNotContains(t, broken, "<iframe", "<video")

	native := renderBlock(t, ctx, r, map[string]any{"videoUrl": "/media/intro.mp4", "aspectRatio": "21-9"})
	assertContains(t, native, `<video src="/media/intro.mp4" controls`, "pb-ratio-16-9")
}
