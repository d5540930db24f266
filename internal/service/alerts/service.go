package alerts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/agricure/internal/domain/models"
	client "github.com/mamadbah2/agricure/pkg/clients/whatsapp"
)

// ErrNoRecipient is returned when no alert recipient is configured.
var ErrNoRecipient = errors.New("alert recipient not configured")

// WhatsAppNotifier delivers soil health alerts over WhatsApp.
type WhatsAppNotifier struct {
	client    client.Client
	recipient string
	logger    *zap.Logger
}

// NewWhatsAppNotifier wires a notifier sending to recipient.
func NewWhatsAppNotifier(c client.Client, recipient string, logger *zap.Logger) *WhatsAppNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsAppNotifier{client: c, recipient: recipient, logger: logger}
}

// NotifySoilHealth sends the alert text for s.
func (n *WhatsAppNotifier) NotifySoilHealth(ctx context.Context, s models.HealthSnapshot) error {
	if n.recipient == "" {
		return ErrNoRecipient
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := n.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:   n.recipient,
		Body: FormatAlert(s),
	})
	if err != nil {
		return fmt.Errorf("send soil alert: %w", err)
	}

	n.logger.Info("soil alert sent",
		zap.String("to", n.recipient),
		zap.String("message_id", resp.MessageID()),
		zap.Int("overall_score", s.OverallScore),
	)
	return nil
}

// FormatAlert renders the alert body.
func FormatAlert(s models.HealthSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ Soil health alert: %s (%d/100)\n", s.Category, s.OverallScore)
	fmt.Fprintf(&b, "%s\n\n", s.Recommendation)

	r := s.Reading
	fmt.Fprintf(&b, "N %.1f | P %.1f | K %.1f mg/kg\n", r.Nitrogen, r.Phosphorus, r.Potassium)
	fmt.Fprintf(&b, "pH %.2f | EC %.2f dS/m\n", r.PH, r.ElectricalConductivity)
	fmt.Fprintf(&b, "Moisture %.1f%% | Temp %.1f°C\n", r.SoilMoisture, r.SoilTemperature)
	fmt.Fprintf(&b, "Captured %s", s.CapturedAt.Format("02 Jan 2006 15:04 MST"))
	if r.Source == models.SourceMock {
		b.WriteString(" (sensor offline, simulated values)")
	}
	return b.String()
}
