package notificationserv

import (
	"context"

	"github.com/Philanthropists/income-alerts/internal/logging"
)

type smsClient interface {
	SendMessage(toNumber, sms string) ([]byte, error)
}

type NotificationService struct {
	SMSClient smsClient
}

func (n *NotificationService) SendSMS(ctx context.Context, to, msg string) error {
	log := logging.FromContext(ctx)

	if err := ctx.Err(); err != nil {
		return err
	}

	r, err := n.SMSClient.SendMessage(to, msg)
	if err != nil {
		log.Error("failed to send SMS",
			logging.Error(err),
			logging.String("to_number", to),
			logging.Int("msg_len", len(msg)),
		)
		return err
	}

	log.Debug("response from sending SMS", logging.String("response", string(r)))

	return nil
}
