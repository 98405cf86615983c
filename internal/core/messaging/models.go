package messaging

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind tipo de mensagem suportado pelo protocolo
type Kind string

const (
	KindText     Kind = "text"
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
	KindDocument Kind = "document"
	KindSticker  Kind = "sticker"
	KindContact  Kind = "contact"
	KindLocation Kind = "location"
	KindUnknown  Kind = "unknown"
)

// Content variante de conteúdo de uma mensagem recebida.
// Cada tipo de mensagem do protocolo tem um caso explícito; payloads não
// reconhecidos caem em UnknownContent.
type Content interface {
	Kind() Kind
}

// TextContent mensagem de texto simples
type TextContent struct {
	Body string
}

// ImageContent imagem com legenda opcional
type ImageContent struct {
	Caption string
}

// VideoContent vídeo com legenda opcional
type VideoContent struct {
	Caption string
}

// AudioContent áudio ou nota de voz
type AudioContent struct{}

// DocumentContent documento com nome e legenda opcionais
type DocumentContent struct {
	FileName string
	Caption  string
}

// StickerContent figurinha
type StickerContent struct{}

// ContactContent cartão de contato compartilhado
type ContactContent struct {
	Name string
}

// LocationContent localização compartilhada
type LocationContent struct {
	Latitude  float64
	Longitude float64
}

// UnknownContent payload não reconhecido
type UnknownContent struct{}

func (TextContent) Kind() Kind     { return KindText }
func (ImageContent) Kind() Kind    { return KindImage }
func (VideoContent) Kind() Kind    { return KindVideo }
func (AudioContent) Kind() Kind    { return KindAudio }
func (DocumentContent) Kind() Kind { return KindDocument }
func (StickerContent) Kind() Kind  { return KindSticker }
func (ContactContent) Kind() Kind  { return KindContact }
func (LocationContent) Kind() Kind { return KindLocation }
func (UnknownContent) Kind() Kind  { return KindUnknown }

// Inbound evento de mensagem entregue pelo socket do protocolo
type Inbound struct {
	MessageID string
	Sender    string
	Chat      string
	FromMe    bool
	// Notification indica notificação genuína de conteúdo novo,
	// em oposição a recibos e frames de controle do protocolo
	Notification bool
	Timestamp    time.Time
	Content      Content
}

// StoredMessage registro persistido de mensagem enviada ou recebida
type StoredMessage struct {
	ID        uuid.UUID  `json:"id"`
	SessionID string     `json:"sessionId"`
	RemoteJID string     `json:"remoteJid"`
	FromMe    bool       `json:"fromMe"`
	Kind      Kind       `json:"kind"`
	Content   *string    `json:"content,omitempty"`
	MessageID string     `json:"messageId"`
	Timestamp time.Time  `json:"timestamp"`
	CreatedAt time.Time  `json:"createdAt"`
}

// SendReceipt resultado bruto de um envio pelo socket
type SendReceipt struct {
	ID        string
	Timestamp time.Time
}

// SendResult resultado de envio exposto ao chamador
type SendResult struct {
	MessageID string    `json:"messageId"`
	Timestamp time.Time `json:"timestamp"`
}

var kindCaser = cases.Title(language.English)

// Summary extrai um resumo textual legível do conteúdo.
// Retorna nil quando não há conteúdo extraível.
func Summary(c Content) *string {
	switch v := c.(type) {
	case TextContent:
		if v.Body == "" {
			return nil
		}
		return strPtr(v.Body)
	case ImageContent:
		return strPtr(withCaption(kindLabel(KindImage), v.Caption))
	case VideoContent:
		return strPtr(withCaption(kindLabel(KindVideo), v.Caption))
	case AudioContent:
		return strPtr(kindLabel(KindAudio))
	case DocumentContent:
		return strPtr(withCaption(kindLabel(KindDocument), v.Caption))
	case StickerContent:
		return strPtr(kindLabel(KindSticker))
	case ContactContent:
		if v.Name != "" {
			return strPtr(fmt.Sprintf("[Contact: %s]", v.Name))
		}
		return strPtr(kindLabel(KindContact))
	case LocationContent:
		return strPtr(fmt.Sprintf("[Location: %g, %g]", v.Latitude, v.Longitude))
	default:
		return nil
	}
}

// kindLabel produz o rótulo de tipo entre colchetes, ex: "[Image]"
func kindLabel(kind Kind) string {
	return "[" + kindCaser.String(string(kind)) + "]"
}

func withCaption(label, caption string) string {
	if caption == "" {
		return label
	}
	return label + " " + caption
}

func strPtr(s string) *string {
	return &s
}
