package waclient

import (
	waE2E "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/bsdmy2005/rental-agent-sub005/internal/core/messaging"
)

// mapInbound converte um evento de mensagem do whatsmeow para o modelo de
// domínio. Frames de protocolo (edições, reações, revogações) não são
// notificações de conteúdo novo e saem com Notification=false.
func mapInbound(evt *events.Message) messaging.Inbound {
	inbound := messaging.Inbound{
		MessageID:    evt.Info.ID,
		Sender:       evt.Info.Sender.String(),
		Chat:         evt.Info.Chat.String(),
		FromMe:       evt.Info.IsFromMe,
		Notification: isNotification(evt.Message),
		Timestamp:    evt.Info.Timestamp,
		Content:      mapContent(evt.Message),
	}
	return inbound
}

func isNotification(msg *waE2E.Message) bool {
	if msg == nil {
		return false
	}
	if msg.GetProtocolMessage() != nil {
		return false
	}
	if msg.GetReactionMessage() != nil {
		return false
	}
	return true
}

func mapContent(msg *waE2E.Message) messaging.Content {
	if msg == nil {
		return messaging.UnknownContent{}
	}

	switch {
	case msg.GetConversation() != "":
		return messaging.TextContent{Body: msg.GetConversation()}
	case msg.GetExtendedTextMessage().GetText() != "":
		return messaging.TextContent{Body: msg.GetExtendedTextMessage().GetText()}
	case msg.GetImageMessage() != nil:
		return messaging.ImageContent{Caption: msg.GetImageMessage().GetCaption()}
	case msg.GetVideoMessage() != nil:
		return messaging.VideoContent{Caption: msg.GetVideoMessage().GetCaption()}
	case msg.GetAudioMessage() != nil:
		return messaging.AudioContent{}
	case msg.GetDocumentMessage() != nil:
		return messaging.DocumentContent{
			FileName: msg.GetDocumentMessage().GetFileName(),
			Caption:  msg.GetDocumentMessage().GetCaption(),
		}
	case msg.GetStickerMessage() != nil:
		return messaging.StickerContent{}
	case msg.GetContactMessage() != nil:
		return messaging.ContactContent{Name: msg.GetContactMessage().GetDisplayName()}
	case msg.GetLocationMessage() != nil:
		return messaging.LocationContent{
			Latitude:  msg.GetLocationMessage().GetDegreesLatitude(),
			Longitude: msg.GetLocationMessage().GetDegreesLongitude(),
		}
	default:
		return messaging.UnknownContent{}
	}
}
