// Package notifications posts scrape run outcomes to Slack.
package notifications

import (
	"github.com/HamptonNorth/portfolio-60-sub003/pkg/types"
	"github.com/sirupsen/logrus"
)

// NotificationService decides which runs are worth a Slack message.
// Failures and partial runs always notify, clean runs only when
// notify_on_success is set in the config.
type NotificationService struct {
	slack           *SlackService
	logger          *logrus.Logger
	notifyOnSuccess bool
}

// NewNotificationService wires the service. slack may be nil when no
// webhook is configured, in which case every notification is a no-op.
func NewNotificationService(slack *SlackService, logger *logrus.Logger, notifyOnSuccess bool) *NotificationService {
	return &NotificationService{
		slack:           slack,
		logger:          logger,
		notifyOnSuccess: notifyOnSuccess,
	}
}

func (s *NotificationService) NotifyRun(run types.ScrapeRun) {
	if s.slack == nil {
		return
	}

	if run.Status == types.RunOK && !s.notifyOnSuccess {
		s.logger.Debugf("Skipping Slack notification for clean run of %s", run.Job)
		return
	}

	if err := s.slack.SendRunNotification(run); err != nil {
		s.logger.Errorf("Failed to send Slack notification for %s: %v", run.Job, err)
	}
}
