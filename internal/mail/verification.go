package mail

import (
	"fmt"
	"strings"
)

// VerificationEmail renders the account verification mail for the given
// confirmation link.
func VerificationEmail(frontendURL, token string) (subject, textBody, htmlBody string) {
	verifyLink := fmt.Sprintf("%s/user/verify-email?token=%s", strings.TrimRight(frontendURL, "/"), token)

	subject = "Verify your email"
	textBody = fmt.Sprintf(
		"Please verify your email by visiting: %s\nThis link expires in 24 hours.",
		verifyLink,
	)
	htmlBody = fmt.Sprintf(`<html>
  <body>
    <p>Hello,</p>
    <p>Please verify your email by clicking the button below:</p>
    <p><a href="%[1]s" style="display:inline-block;padding:10px 16px;border-radius:6px;text-decoration:none;border:1px solid #2b6cb0">Verify Email</a></p>
    <p>or click below link</p>
    <p><a href="%[1]s">%[1]s</a></p>
    <p>This link will expire in 24 hours.</p>
    <p>If you did not sign up, ignore this message.</p>
  </body>
</html>`, verifyLink)

	return subject, textBody, htmlBody
}
