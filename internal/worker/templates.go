package worker

import (
	"bytes"
	"html/template"

	"github.com/herdup/herdup/pkg/queue"
)

var passwordResetTmpl = template.Must(template.New("password_reset").Parse(`<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
	<h2>Reset your HerdUp password</h2>
	<p>Someone asked to reset the password for this account.</p>
	<p><a href="{{.ResetURL}}" style="background-color: #BF5700; color: white; padding: 10px 20px; text-decoration: none; border-radius: 4px; display: inline-block;">Reset Password</a></p>
	<p>This link expires in 1 hour. If you didn't ask for it, ignore this email.</p>
</body>
</html>`))

var rsvpConfirmationTmpl = template.Must(template.New("rsvp_confirmation").Parse(`<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
	<h2>You're going to {{.EventName}}</h2>
	<p>{{.OrgName}} has your RSVP.</p>
	<p><strong>When:</strong> {{.When}}<br>
	{{if .Location}}<strong>Where:</strong> {{.Location}}{{end}}</p>
</body>
</html>`))

func renderPasswordReset(p queue.PasswordResetPayload) (Message, error) {
	var buf bytes.Buffer
	if err := passwordResetTmpl.Execute(&buf, p); err != nil {
		return Message{}, err
	}
	return Message{To: p.RecipientEmail, Subject: "Reset your HerdUp password", HTML: buf.String()}, nil
}

func renderRSVPConfirmation(p queue.RSVPConfirmationPayload) (Message, error) {
	data := struct {
		queue.RSVPConfirmationPayload
		When string
	}{p, p.EventDate + " " + p.EventTime}
	var buf bytes.Buffer
	if err := rsvpConfirmationTmpl.Execute(&buf, data); err != nil {
		return Message{}, err
	}
	return Message{To: p.RecipientEmail, Subject: "RSVP confirmed: " + p.EventName, HTML: buf.String()}, nil
}
