package messaging_test

import (
	"testing"

	"github.com/bsdmy2005/rental-agent-sub005/internal/core/messaging"
)

func TestSummary(t *testing.T) {
	tests := []struct {
		name    string
		content messaging.Content
		want    string
		wantNil bool
	}{
		{name: "text", content: messaging.TextContent{Body: "hello"}, want: "hello"},
		{name: "empty text", content: messaging.TextContent{}, wantNil: true},
		{name: "image without caption", content: messaging.ImageContent{}, want: "[Image]"},
		{name: "image with caption", content: messaging.ImageContent{Caption: "see this"}, want: "[Image] see this"},
		{name: "video with caption", content: messaging.VideoContent{Caption: "clip"}, want: "[Video] clip"},
		{name: "audio", content: messaging.AudioContent{}, want: "[Audio]"},
		{name: "document", content: messaging.DocumentContent{FileName: "invoice.pdf"}, want: "[Document]"},
		{name: "sticker", content: messaging.StickerContent{}, want: "[Sticker]"},
		{name: "contact with name", content: messaging.ContactContent{Name: "Alice"}, want: "[Contact: Alice]"},
		{name: "contact without name", content: messaging.ContactContent{}, want: "[Contact]"},
		{name: "location", content: messaging.LocationContent{Latitude: -33.92, Longitude: 18.42}, want: "[Location: -33.92, 18.42]"},
		{name: "unknown", content: messaging.UnknownContent{}, wantNil: true},
		{name: "nil content", content: nil, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := messaging.Summary(tt.content)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("expected nil summary, got %q", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %q, got nil", tt.want)
			}
			if *got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, *got)
			}
		})
	}
}

func TestContentKinds(t *testing.T) {
	tests := []struct {
		content messaging.Content
		want    messaging.Kind
	}{
		{messaging.TextContent{}, messaging.KindText},
		{messaging.ImageContent{}, messaging.KindImage},
		{messaging.VideoContent{}, messaging.KindVideo},
		{messaging.AudioContent{}, messaging.KindAudio},
		{messaging.DocumentContent{}, messaging.KindDocument},
		{messaging.StickerContent{}, messaging.KindSticker},
		{messaging.ContactContent{}, messaging.KindContact},
		{messaging.LocationContent{}, messaging.KindLocation},
		{messaging.UnknownContent{}, messaging.KindUnknown},
	}

	for _, tt := range tests {
		if got := tt.content.Kind(); got != tt.want {
			t.Fatalf("expected kind %q, got %q", tt.want, got)
		}
	}
}
