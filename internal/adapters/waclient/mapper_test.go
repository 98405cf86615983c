package waclient

import (
	"testing"
	"time"

	waE2E "go.mau.fi/whatsmeow/proto/waE2E"
	waTypes "go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"

	"github.com/bsdmy2005/rental-agent-sub005/internal/core/messaging"
)

func newMessageEvent(msg *waE2E.Message, fromMe bool) *events.Message {
	return &events.Message{
		Info: waTypes.MessageInfo{
			MessageSource: waTypes.MessageSource{
				Chat:     waTypes.NewJID("27821234567", waTypes.DefaultUserServer),
				Sender:   waTypes.NewJID("27821234567", waTypes.DefaultUserServer),
				IsFromMe: fromMe,
			},
			ID:        "wa-msg-1",
			Timestamp: time.Now(),
		},
		Message: msg,
	}
}

func TestMapInboundText(t *testing.T) {
	evt := newMessageEvent(&waE2E.Message{Conversation: proto.String("hello")}, false)

	inbound := mapInbound(evt)
	if inbound.MessageID != "wa-msg-1" {
		t.Fatalf("expected message id wa-msg-1, got %q", inbound.MessageID)
	}
	if !inbound.Notification {
		t.Fatal("expected text message to be a notification")
	}
	if inbound.FromMe {
		t.Fatal("expected fromMe false")
	}

	text, ok := inbound.Content.(messaging.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", inbound.Content)
	}
	if text.Body != "hello" {
		t.Fatalf("expected body hello, got %q", text.Body)
	}
}

func TestMapInboundExtendedText(t *testing.T) {
	evt := newMessageEvent(&waE2E.Message{
		ExtendedTextMessage: &waE2E.ExtendedTextMessage{Text: proto.String("quoted reply")},
	}, false)

	text, ok := mapInbound(evt).Content.(messaging.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", mapInbound(evt).Content)
	}
	if text.Body != "quoted reply" {
		t.Fatalf("expected quoted reply, got %q", text.Body)
	}
}

func TestMapInboundMedia(t *testing.T) {
	evt := newMessageEvent(&waE2E.Message{
		ImageMessage: &waE2E.ImageMessage{Caption: proto.String("sunset")},
	}, false)

	img, ok := mapInbound(evt).Content.(messaging.ImageContent)
	if !ok {
		t.Fatalf("expected ImageContent, got %T", mapInbound(evt).Content)
	}
	if img.Caption != "sunset" {
		t.Fatalf("expected caption sunset, got %q", img.Caption)
	}

	evt = newMessageEvent(&waE2E.Message{
		LocationMessage: &waE2E.LocationMessage{
			DegreesLatitude:  proto.Float64(-33.92),
			DegreesLongitude: proto.Float64(18.42),
		},
	}, false)

	loc, ok := mapInbound(evt).Content.(messaging.LocationContent)
	if !ok {
		t.Fatalf("expected LocationContent, got %T", mapInbound(evt).Content)
	}
	if loc.Latitude != -33.92 || loc.Longitude != 18.42 {
		t.Fatalf("unexpected coordinates: %g, %g", loc.Latitude, loc.Longitude)
	}
}

func TestMapInboundProtocolFrameIsNotNotification(t *testing.T) {
	evt := newMessageEvent(&waE2E.Message{
		ProtocolMessage: &waE2E.ProtocolMessage{},
	}, false)

	if mapInbound(evt).Notification {
		t.Fatal("expected protocol frame to not be a notification")
	}

	evt = newMessageEvent(nil, false)
	if mapInbound(evt).Notification {
		t.Fatal("expected empty message to not be a notification")
	}
}

func TestMapInboundUnknownContent(t *testing.T) {
	evt := newMessageEvent(&waE2E.Message{}, false)

	if _, ok := mapInbound(evt).Content.(messaging.UnknownContent); !ok {
		t.Fatalf("expected UnknownContent, got %T", mapInbound(evt).Content)
	}
}
