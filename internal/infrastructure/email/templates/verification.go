// Package templates provides email template rendering
package templates

import (
	"bytes"
	"html/template"
	"log"
)

// VerificationEmailProps carries the dynamic fields of the verification email.
type VerificationEmailProps struct {
	Code           string
	ExpirationNote string
}

// verificationEmailTemplate is the compiled template for the OTP verification email
var verificationEmailTemplate = template.Must(template.New("verificationEmail").Parse(`
<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; margin:0; padding:0; background:#f9f9f9;">
    <table align="center" width="600" style="background:#ffffff; border-radius:8px; padding:30px; box-shadow:0 2px 6px rgba(0,0,0,0.1);">
        <tr>
            <td style="text-align:center;">
                <h2 style="margin-bottom:10px; color:#333;">Email Verification</h2>
                <p style="color:#555; font-size:16px;">Use the code below to verify your email address:</p>
                <p style="font-size:32px; font-weight:bold; letter-spacing:4px; margin:20px 0; color:#111;">{{.Code}}</p>
                <p style="font-size:14px; color:#777;">{{.ExpirationNote}}</p>
                <p style="font-size:14px; color:#777; margin-top:20px;">If you did not request this code, you can ignore this email.</p>
            </td>
        </tr>
        <tr>
            <td style="text-align:center; font-size:12px; color:#aaa; padding-top:20px;">
                &copy; 2025 Pine. All rights reserved.
            </td>
        </tr>
    </table>
</body>
</html>
`))

// GetVerificationEmailContent renders the verification email HTML.
func GetVerificationEmailContent(props VerificationEmailProps) string {
	if props.ExpirationNote == "" {
		props.ExpirationNote = "This code expires in 10 minutes."
	}

	var buf bytes.Buffer
	if err := verificationEmailTemplate.Execute(&buf, props); err != nil {
		log.Printf("ERROR: Failed to execute verification email template: %v", err)
		return ""
	}
	return buf.String()
}
