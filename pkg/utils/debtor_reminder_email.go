package utils

import (
	"fmt"
	"time"
)

// SendDebtorReminderEmail nudges a user who still owes money across their
// shared expenses. amount is the pre-formatted outstanding total.
func SendDebtorReminderEmail(m *Mailer, to, name, amount string) error {
	subject := fmt.Sprintf("Reminder: you still owe %s across your shared expenses", amount)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<title>Balance Reminder</title>
	<style>
		body { font-family: 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f6f8f7; margin: 0; color: #333; }
		.container { max-width: 480px; margin: 25px auto; background: #ffffff; border-radius: 12px; overflow: hidden; border-top: 5px solid #d9534f; }
		.header { background-color: #d9534f; color: #ffffff; text-align: center; padding: 18px 12px; }
		.header h1 { margin: 0; font-size: 18px; font-weight: 600; }
		.content { padding: 20px 18px; font-size: 14px; line-height: 1.6; color: #444; }
		.amount-box { background: #fff6f6; border: 1px solid #f1c1c1; border-radius: 8px; padding: 12px 14px; margin: 16px 0; text-align: center; }
		.amount-box h3 { margin: 0; color: #d9534f; font-size: 16px; font-weight: 700; }
		.footer { background: #f6f6f6; text-align: center; padding: 14px; font-size: 12px; color: #777; }
	</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>Balance Reminder</h1></div>
			<div class="content">
				<p>Hi %s,<br><br>
				This is a friendly reminder that you currently owe a total of <b>%s</b>
				across your shared expenses.</p>
				<div class="amount-box"><h3>%s outstanding</h3></div>
				<p>Log in to <b>Split Ledger</b> to settle up and keep your balances clean.</p>
			</div>
			<div class="footer">&copy; %d <b>Split Ledger</b></div>
		</div>
	</body>
	</html>
	`, name, amount, amount, time.Now().Year())

	return m.Send(to, subject, body)
}
