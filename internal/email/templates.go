package email

import (
	"bytes"
	"html/template"
)

var verificationTemplate = template.Must(template.New("verification").Parse(`<p>Hello {{.Name}},</p>
{{if .Approved}}<p>Your request for admin access has been approved. You now have access to admin features.</p>
{{else}}<p>Your request for admin access has been rejected.</p>
{{if .Notes}}<p>Reason: {{.Notes}}</p>{{end}}
<p>You may submit a new request with updated verification information.</p>
{{end}}<p>Community Issue Reporting</p>`))

// VerificationOutcome builds the email sent after an admin request is reviewed.
func VerificationOutcome(to, name string, approved bool, notes string) (Message, error) {
	var buf bytes.Buffer
	err := verificationTemplate.Execute(&buf, struct {
		Name     string
		Approved bool
		Notes    string
	}{name, approved, notes})
	if err != nil {
		return Message{}, err
	}

	subject := "Admin Access Rejected"
	if approved {
		subject = "Admin Access Approved"
	}
	return Message{To: to, Subject: subject, Body: buf.String()}, nil
}
