package email

import (
	"bytes"
	"fmt"
	"html/template"
)

type TemplateType string

const (
	TemplateTypeStaffInvite TemplateType = "staff_invite"
)

var templates = map[TemplateType]string{
	TemplateTypeStaffInvite: `<p>Hello {{.Name}},</p>
<p>You have been invited to join <strong>{{.OrganizationName}}</strong> as {{.Role}}.</p>
<p><a href="{{.SetPasswordURL}}">Set your password</a> to get started.</p>`,
}

type StaffInviteData struct {
	Name             string
	OrganizationName string
	Role             string
	SetPasswordURL   string
}

func RenderTemplate(t TemplateType, data any) (string, error) {
	raw, ok := templates[t]
	if !ok {
		return "", fmt.Errorf("unknown email template: %s", t)
	}

	tmpl, err := template.New(string(t)).Parse(raw)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
