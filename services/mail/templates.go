package mail

import (
	"fmt"
	"html"
)

// layout wraps content in the shared email shell
func layout(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f5f5f5;
        }
        .container {
            background-color: #ffffff;
            border-radius: 8px;
            padding: 40px;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
        }
        .logo {
            text-align: center;
            margin-bottom: 30px;
            padding-bottom: 20px;
            border-bottom: 2px solid #ffd60a;
        }
        .highlight {
            font-size: 24px;
            font-weight: bold;
            letter-spacing: 4px;
            text-align: center;
        }
        .button {
            display: inline-block;
            background-color: #ffd60a;
            color: #000814 !important;
            padding: 14px 28px;
            text-decoration: none;
            border-radius: 6px;
            font-weight: 600;
            margin: 20px 0;
        }
        .footer {
            margin-top: 30px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            font-size: 12px;
            color: #666;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo"><h1>StudyNotion</h1></div>
        %s
        <div class="footer">
            <p>If you have any questions, reach us at <a href="mailto:info@studynotion.com">info@studynotion.com</a>.</p>
        </div>
    </div>
</body>
</html>`, html.EscapeString(title), content)
}

// OTPVerificationEmail carries the signup passcode
func OTPVerificationEmail(otp string) (string, string) {
	subject := "Verification Email"
	body := fmt.Sprintf(`
        <h2>OTP Verification Email</h2>
        <p>Dear User,</p>
        <p>Thank you for registering with StudyNotion. To complete your registration, please use the following OTP (One-Time Password) to verify your account:</p>
        <p class="highlight">%s</p>
        <p>This OTP is valid for 5 minutes. If you did not request this verification, please disregard this email.</p>`,
		html.EscapeString(otp))
	return subject, layout(subject, body)
}

// PasswordUpdatedEmail confirms a password change
func PasswordUpdatedEmail(email, name string) (string, string) {
	subject := fmt.Sprintf("Password updated successfully for %s", name)
	body := fmt.Sprintf(`
        <h2>Password Update Confirmation</h2>
        <p>Hey %s,</p>
        <p>Your password has been successfully updated for the email <strong>%s</strong>.</p>
        <p>If you did not request this password change, please contact us immediately to secure your account.</p>`,
		html.EscapeString(name), html.EscapeString(email))
	return subject, layout(subject, body)
}

// PasswordResetEmail carries the single-use reset link
func PasswordResetEmail(link string) (string, string) {
	subject := "Password Reset Link"
	body := fmt.Sprintf(`
        <h2>Reset Your Password</h2>
        <p>Your link for email verification is below. Please click it to reset your password.</p>
        <p style="text-align: center;"><a href="%s" class="button">Reset Password</a></p>
        <p>This link expires in 1 hour.</p>`,
		html.EscapeString(link))
	return subject, layout(subject, body)
}

// CourseEnrollmentEmail confirms enrollment into a course
func CourseEnrollmentEmail(courseName, name string) (string, string) {
	subject := fmt.Sprintf("Successfully Enrolled into %s", courseName)
	body := fmt.Sprintf(`
        <h2>Course Registration Confirmation</h2>
        <p>Dear %s,</p>
        <p>You have successfully registered for the course <strong>"%s"</strong>. We are excited to have you as a participant!</p>
        <p>Please log in to your learning dashboard to access the course materials and start your learning journey.</p>`,
		html.EscapeString(name), html.EscapeString(courseName))
	return subject, layout(subject, body)
}

// PaymentSuccessEmail is the receipt for a captured payment. amount is in
// major units.
func PaymentSuccessEmail(name string, amount float64, orderID, paymentID string) (string, string) {
	subject := "Payment Received"
	body := fmt.Sprintf(`
        <h2>Course Payment Confirmation</h2>
        <p>Dear %s,</p>
        <p>We have received a payment of <strong>₹%s</strong>.</p>
        <p>Your Payment ID is <strong>%s</strong></p>
        <p>Your Order ID is <strong>%s</strong></p>`,
		html.EscapeString(name), formatAmount(amount), html.EscapeString(paymentID), html.EscapeString(orderID))
	return subject, layout(subject, body)
}

func formatAmount(amount float64) string {
	if amount == float64(int64(amount)) {
		return fmt.Sprintf("%d", int64(amount))
	}
	return fmt.Sprintf("%.2f", amount)
}
