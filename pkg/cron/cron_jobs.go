package cron

import (
	"os"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"splitledger/internal/manager"
	"splitledger/internal/models"
	"splitledger/pkg/utils"
)

type UserLister interface {
	Users() ([]models.User, error)
}

// StartReminderJobs schedules the debtor reminder run. The schedule comes
// from REMINDER_CRON and defaults to daily at midnight.
func StartReminderJobs(mgr *manager.Manager, users UserLister, mailer *utils.Mailer, logger *logrus.Logger) *cron.Cron {
	c := cron.New()

	spec := os.Getenv("REMINDER_CRON")
	if spec == "" {
		spec = "0 0 * * *"
	}

	_, err := c.AddFunc(spec, func() {
		if err := SendDebtorReminders(mgr, users, mailer, logger); err != nil {
			logger.Errorf("Cron job failed to send reminder emails: %v", err)
		}
	})
	if err != nil {
		logger.Errorf("Failed to schedule debtor reminder job: %v", err)
		return c
	}

	c.Start()
	logger.Infof("Cron jobs started (debtor reminders on %q)", spec)
	return c
}

// SendDebtorReminders emails every user who currently owes money their
// outstanding total. Usernames are email addresses.
func SendDebtorReminders(mgr *manager.Manager, users UserLister, mailer *utils.Mailer, logger *logrus.Logger) error {
	list, err := users.Users()
	if err != nil {
		return utils.ErrorHandler(logger, err, "failed to list users for reminders")
	}

	for _, user := range list {
		youOwe, _ := mgr.DashboardTotals(user.Username)
		if !youOwe.IsPositive() {
			continue
		}

		amount := youOwe.StringFixed(2)
		if err := utils.SendDebtorReminderEmail(mailer, user.Username, user.Name, amount); err != nil {
			logger.Errorf("failed to send reminder email to %s: %v", user.Username, err)
			continue
		}
		logger.Infof("Sent reminder to %s (owes %s)", user.Username, amount)
	}
	return nil
}
