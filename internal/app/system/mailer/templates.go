// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"html/template"
)

// BookingRequestEmailData contains the data for the email sent to the
// site owner when a visitor submits a booking request.
type BookingRequestEmailData struct {
	AppName      string
	Name         string
	Email        string
	Phone        string
	Interest     string
	EventDate    string
	EventType    string
	Message      string
	DashboardURL string
}

// BookingRequestEmail generates both plain text and HTML versions of a
// booking request notification.
func BookingRequestEmail(data BookingRequestEmailData) (textBody, htmlBody string) {
	// Plain text version
	textBody = "New booking request on " + data.AppName + ".\n\n" +
		"From: " + data.Name + " <" + data.Email + ">\n"
	if data.Phone != "" {
		textBody += "Phone: " + data.Phone + "\n"
	}
	if data.Interest != "" {
		textBody += "Interested in: " + data.Interest + "\n"
	}
	if data.EventDate != "" {
		textBody += "Event date: " + data.EventDate + "\n"
	}
	if data.EventType != "" {
		textBody += "Event type: " + data.EventType + "\n"
	}
	textBody += "\nMessage:\n" + data.Message + "\n\n" +
		"Review it in the dashboard:\n" + data.DashboardURL

	// HTML version
	var buf bytes.Buffer
	bookingRequestHTMLTmpl.Execute(&buf, data)
	htmlBody = buf.String()

	return textBody, htmlBody
}

var bookingRequestHTMLTmpl = template.Must(template.New("booking_request").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>New Booking Request</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f4f4f5;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f4f4f5;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,0.1);">
          <!-- Header -->
          <tr>
            <td style="padding: 32px 32px 24px 32px; text-align: center; border-bottom: 1px solid #e4e4e7;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #18181b;">{{.AppName}}</h1>
            </td>
          </tr>
          <!-- Content -->
          <tr>
            <td style="padding: 32px;">
              <h2 style="margin: 0 0 16px 0; font-size: 20px; font-weight: 600; color: #18181b; text-align: center;">New Booking Request</h2>
              <div style="padding: 16px; background-color: #f4f4f5; border-radius: 6px; margin-bottom: 24px;">
                <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                  <tr>
                    <td style="padding: 4px 0; font-size: 14px; color: #52525b;"><strong>From:</strong></td>
                    <td style="padding: 4px 0; font-size: 14px; color: #52525b; text-align: right;">{{.Name}}</td>
                  </tr>
                  <tr>
                    <td style="padding: 4px 0; font-size: 14px; color: #52525b;"><strong>Email:</strong></td>
                    <td style="padding: 4px 0; font-size: 14px; color: #52525b; text-align: right;">{{.Email}}</td>
                  </tr>
                  {{if .Phone}}
                  <tr>
                    <td style="padding: 4px 0; font-size: 14px; color: #52525b;"><strong>Phone:</strong></td>
                    <td style="padding: 4px 0; font-size: 14px; color: #52525b; text-align: right;">{{.Phone}}</td>
                  </tr>
                  {{end}}
                  {{if .Interest}}
                  <tr>
                    <td style="padding: 4px 0; font-size: 14px; color: #52525b;"><strong>Interested in:</strong></td>
                    <td style="padding: 4px 0; font-size: 14px; color: #52525b; text-align: right;">{{.Interest}}</td>
                  </tr>
                  {{end}}
                  {{if .EventDate}}
                  <tr>
                    <td style="padding: 4px 0; font-size: 14px; color: #52525b;"><strong>Event date:</strong></td>
                    <td style="padding: 4px 0; font-size: 14px; color: #52525b; text-align: right;">{{.EventDate}}</td>
                  </tr>
                  {{end}}
                  {{if .EventType}}
                  <tr>
                    <td style="padding: 4px 0; font-size: 14px; color: #52525b;"><strong>Event type:</strong></td>
                    <td style="padding: 4px 0; font-size: 14px; color: #52525b; text-align: right;">{{.EventType}}</td>
                  </tr>
                  {{end}}
                </table>
              </div>
              <div style="padding: 16px; background-color: #f0f9ff; border-radius: 6px; border-left: 4px solid #3b82f6; margin-bottom: 24px;">
                <p style="margin: 0 0 4px 0; font-size: 12px; font-weight: 600; color: #1e40af; text-transform: uppercase;">Message</p>
                <p style="margin: 0; font-size: 14px; line-height: 1.6; color: #1e3a8a;">{{.Message}}</p>
              </div>
              <!-- Button -->
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center" style="padding: 0 0 24px 0;">
                    <a href="{{.DashboardURL}}" style="display: inline-block; padding: 14px 32px; background-color: #4f46e5; color: #ffffff; text-decoration: none; font-size: 15px; font-weight: 600; border-radius: 6px;">Open Dashboard</a>
                  </td>
                </tr>
              </table>
            </td>
          </tr>
          <!-- Footer -->
          <tr>
            <td style="padding: 24px 32px; background-color: #fafafa; border-top: 1px solid #e4e4e7; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #a1a1aa; text-align: center;">
                This is an automated notification from {{.AppName}}.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`))
