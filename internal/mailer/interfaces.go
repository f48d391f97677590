package mailer

// Service sends transactional mail to administrators. Implementations must
// be safe for concurrent use; the notify worker fans events into them.
type Service interface {
	SendOfficePendingApproval(toEmail, toName, officeTitle string, officeID int64) error
}
