package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"lms/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	if from == "" || password == "" {
		return fmt.Errorf("email sender not configured")
	}

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Learning Platform <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// HTML wrapper shared by all notification emails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A2B4C; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A2B4C; line-height: 1.6; }
			.content h2 { color: #1A2B4C; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #5B8DEF; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LEARNING PLATFORM</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Learning Platform. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendCourseAssignedEmail notifies a user that a course was assigned to them
func SendCourseAssignedEmail(email, name, courseTitle, assignerName string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>%s has assigned you the course <strong>%s</strong>.</p>
		<div class="info-box">You can start the course right away from your learning dashboard.</div>
	`, name, assignerName, courseTitle)

	_ = SendEmail([]string{email}, "New course assigned: "+courseTitle, getEmailTemplate("New Course Assigned", body))
}

// SendPathAssignedEmail notifies a user that a learning path was assigned to them
func SendPathAssignedEmail(email, name, pathName, assignerName string, courseCount int) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>%s has assigned you the learning path <strong>%s</strong> (%d courses).</p>
		<div class="info-box">The path's courses are now available on your learning dashboard.</div>
	`, name, assignerName, pathName, courseCount)

	_ = SendEmail([]string{email}, "New learning path assigned: "+pathName, getEmailTemplate("New Learning Path Assigned", body))
}

// SendWeeklyDigestEmail sends the incomplete-assignment digest to one user
func SendWeeklyDigestEmail(email, name string, pendingCourses []string) {
	items := make([]string, len(pendingCourses))
	for i, title := range pendingCourses {
		items[i] = "<li>" + title + "</li>"
	}
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You have %d assigned courses still in progress this week:</p>
		<ul>%s</ul>
	`, name, len(pendingCourses), strings.Join(items, ""))

	_ = SendEmail([]string{email}, "Your weekly learning digest", getEmailTemplate("Weekly Learning Digest", body))
}
