package mailer

import "github.com/deskhub/offices-api/pkg/logger"

// DevMailer logs instead of sending. Used when EMAIL_DEV_MODE is on or no
// MailerSend key is configured.
type DevMailer struct{}

func NewDev() *DevMailer { return &DevMailer{} }

func (m *DevMailer) SendOfficePendingApproval(toEmail, toName, officeTitle string, officeID int64) error {
	logger.Info("dev mailer: office pending approval",
		"to", toEmail,
		"to_name", toName,
		"office_id", officeID,
		"office_title", officeTitle,
	)
	return nil
}

var _ Service = (*DevMailer)(nil)
