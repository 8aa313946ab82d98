package notify

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amounts = message.NewPrinter(language.English)

// Welcome builds the account-created message carrying the one-time
// credentials and the opening balance.
func Welcome(shopName, name, email, username, password string, due float64) Message {
	body := fmt.Sprintf(`Hello %s,
Your account has been created.

Login Credentials:
Username: %s
Password: %s

Current Due: %s

Please change your password after first login.
`, name, username, password, amounts.Sprintf("₹%.2f", due))
	return Message{
		To:      email,
		Subject: fmt.Sprintf("Welcome to %s!", shopName),
		Body:    body,
	}
}

// CredentialsUpdated builds the message sent after an admin credential reset.
// The password line may carry the unchanged marker.
func CredentialsUpdated(shopName, name, email, username, password string) Message {
	body := fmt.Sprintf(`Hello %s,
Your login credentials have been updated:

Username: %s
Password: %s

Please change your password after logging in.
`, name, username, password)
	return Message{
		To:      email,
		Subject: fmt.Sprintf("%s - Account Credentials Updated", shopName),
		Body:    body,
	}
}

// DueReminder builds the daily outstanding-balance reminder for one customer.
func DueReminder(shopName, name, email string, due float64) Message {
	body := fmt.Sprintf(`Hello %s,
This is a friendly reminder from %s.

Your current outstanding due is %s.

Please clear it at your earliest convenience.
`, name, shopName, amounts.Sprintf("₹%.2f", due))
	return Message{
		To:      email,
		Subject: fmt.Sprintf("%s - Daily Due Reminder", shopName),
		Body:    body,
	}
}
