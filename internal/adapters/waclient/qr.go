package waclient

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/mdp/qrterminal/v3"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/bsdmy2005/rental-agent-sub005/platform/logger"
)

// QRRenderer implementa session.QRRenderer convertendo o código de
// pareamento em uma imagem PNG embutível (data URI base64)
type QRRenderer struct {
	logger     *logger.Logger
	inTerminal bool
}

// NewQRRenderer cria o renderizador de QR. Com inTerminal ativo o código
// também é desenhado no stdout, útil em desenvolvimento.
func NewQRRenderer(log *logger.Logger, inTerminal bool) *QRRenderer {
	return &QRRenderer{
		logger:     log,
		inTerminal: inTerminal,
	}
}

// Render gera a imagem do código de pareamento. Falha de renderização
// devolve string vazia; o código ainda pode ser consumido por outros meios.
func (r *QRRenderer) Render(code string) string {
	if r.inTerminal {
		r.renderTerminal(code)
	}

	pngBytes, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		r.logger.ErrorWithFields("Failed to render QR code", map[string]interface{}{
			"error": err.Error(),
		})
		return ""
	}

	return fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(pngBytes))
}

func (r *QRRenderer) renderTerminal(code string) {
	fmt.Println("Scan the QR code below with WhatsApp (Settings > Linked Devices):")
	qrterminal.GenerateWithConfig(code, qrterminal.Config{
		Level:     qrterminal.M,
		Writer:    os.Stdout,
		BlackChar: qrterminal.BLACK,
		WhiteChar: qrterminal.WHITE,
		QuietZone: 1,
	})
}
