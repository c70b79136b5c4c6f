// Package mailtmpl renders the association's branded transactional email
// bodies. Member-provided text always passes through html/template escaping.
package mailtmpl

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const orgName = "GYİAD"
const orgSubtitle = "Genç Yönetici ve İş İnsanları Derneği"

var layoutTmpl = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: linear-gradient(135deg, #0099CC 0%, #007da6 100%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
        <h1 style="color: white; margin: 0;">{{.OrgName}}</h1>
        <p style="color: white; margin: 10px 0 0 0;">{{.OrgSubtitle}}</p>
    </div>

    <div style="background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px;">
        <h2 style="color: #0099CC; margin-top: 0;">{{.Title}}</h2>

        {{.Content}}

        {{if .ActionText}}
        <div style="text-align: center; margin: 30px 0;">
            <a href="{{.ActionURL}}"
               style="background: #0099CC; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; display: inline-block; font-weight: bold;">
                {{.ActionText}}
            </a>
        </div>
        {{end}}

        <hr style="border: none; border-top: 1px solid #ddd; margin: 30px 0;">

        <p style="color: #999; font-size: 12px; text-align: center;">
            © {{.Year}} {{.OrgName}} - Tüm hakları saklıdır.<br>
            Bu otomatik bir e-postadır, lütfen yanıtlamayın.
        </p>
    </div>
</body>
</html>
`))

type layoutData struct {
	OrgName     string
	OrgSubtitle string
	Title       string
	Content     template.HTML
	ActionText  string
	ActionURL   template.URL
	Year        int
}

// Render wraps a pre-rendered content fragment in the branded layout.
func Render(title string, content template.HTML, actionText, actionURL string) (string, error) {
	var buf bytes.Buffer
	err := layoutTmpl.Execute(&buf, layoutData{
		OrgName:     orgName,
		OrgSubtitle: orgSubtitle,
		Title:       title,
		Content:     content,
		ActionText:  actionText,
		ActionURL:   template.URL(actionURL),
		Year:        time.Now().Year(),
	})
	if err != nil {
		return "", fmt.Errorf("render email layout: %w", err)
	}
	return buf.String(), nil
}

func renderContent(t *template.Template, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email content: %w", err)
	}
	return template.HTML(buf.String()), nil
}

var welcomeTmpl = template.Must(template.New("welcome").Parse(`
<p>{{.OrgName}} tarafından üye kaydınız gerçekleşti.</p>
<p>Lütfen aşağıdaki kullanıcı adı ve şifreniz ile giriş yapıp profil bilgilerinizi tamamlayınız ve şifrenizi güncelleyiniz.</p>
<div style="background: white; padding: 20px; border-radius: 5px; border: 1px solid #eee; margin: 20px 0;">
    <p style="margin: 5px 0;"><strong>Kullanıcı Adı:</strong> {{.Email}}</p>
    <p style="margin: 5px 0;"><strong>Şifre:</strong> {{.TempPassword}}</p>
</div>
`))

// Welcome renders the account-created email with the temporary password.
func Welcome(email, tempPassword, loginURL string) (string, error) {
	content, err := renderContent(welcomeTmpl, map[string]string{
		"OrgName":      orgName,
		"Email":        email,
		"TempPassword": tempPassword,
	})
	if err != nil {
		return "", err
	}
	return Render("GYİAD Üyeliğiniz Oluşturuldu", content, "Giriş Yap", loginURL)
}

var requestReceivedTmpl = template.Must(template.New("requestReceived").Parse(`
<p><strong>Talep Eden:</strong> {{.FullName}} ({{.Email}})</p>
<p><strong>Konu:</strong> {{.Subject}}</p>

<div style="background: white; padding: 20px; border-radius: 5px; border: 1px solid #eee; margin: 20px 0;">
    <p style="margin-top: 0; color: #666; font-size: 12px; text-transform: uppercase; letter-spacing: 1px; font-weight: bold;">Mesaj İçeriği</p>
    <p style="font-style: italic; color: #333;">"{{.Message}}"</p>
</div>
`))

// RequestReceived renders the new-request notification sent to the admins.
func RequestReceived(fullName, email, subject, message, adminURL string) (string, error) {
	content, err := renderContent(requestReceivedTmpl, map[string]string{
		"FullName": fullName,
		"Email":    email,
		"Subject":  subject,
		"Message":  message,
	})
	if err != nil {
		return "", err
	}
	return Render("Yeni Üye Talebi", content, "Admin Paneline Git", adminURL)
}

var requestRepliedTmpl = template.Must(template.New("requestReplied").Parse(`
<p>Sn. <strong>{{.FullName}}</strong>,</p>
<p>Derneğimize iletmiş olduğunuz talebiniz yönetim kurulumuz tarafından incelenmiş ve yanıtlanmıştır.</p>

<div style="margin: 20px 0;">
    <p><strong>Konu:</strong> {{.Subject}}</p>
    <p><strong>Mesajınız:</strong> {{.Message}}</p>
</div>

<div style="background: #e6fffa; padding: 20px; border-radius: 5px; border-left: 4px solid #00b341; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #00b341; font-size: 14px; text-transform: uppercase;">Yönetim Cevabı</h3>
    <p style="color: #333;">{{.Reply}}</p>
</div>
`))

// RequestReplied renders the reply notification sent to the requesting member.
func RequestReplied(fullName, subject, message, reply, loginURL string) (string, error) {
	content, err := renderContent(requestRepliedTmpl, map[string]string{
		"FullName": fullName,
		"Subject":  subject,
		"Message":  message,
		"Reply":    reply,
	})
	if err != nil {
		return "", err
	}
	return Render("Talebiniz Yanıtlandı", content, "Taleplerim Sayfasına Git", loginURL)
}

var resetCodeTmpl = template.Must(template.New("resetCode").Parse(`
<p>Merhaba,</p>
<p>GYİAD uygulaması için şifre sıfırlama talebinde bulundunuz.</p>
<p>Doğrulama kodunuz:</p>
<div style="background: #f0f8ff; padding: 20px; text-align: center; font-size: 32px; font-weight: bold; letter-spacing: 5px; color: #0099CC; border-radius: 5px; margin: 20px 0;">
    {{.Code}}
</div>
<p>Bu kod {{.TTLMinutes}} dakika süreyle geçerlidir.</p>
`))

// ResetCode renders the password-reset verification code email.
func ResetCode(code string, ttlMinutes int) (string, error) {
	content, err := renderContent(resetCodeTmpl, map[string]any{
		"Code":       code,
		"TTLMinutes": ttlMinutes,
	})
	if err != nil {
		return "", err
	}
	return Render("Şifre Sıfırlama", content, "", "")
}

var updateReminderTmpl = template.Must(template.New("updateReminder").Parse(`
<p>Sn. <strong>{{.FullName}}</strong>,</p>
<p>Üye profil bilgilerinizin güncel olmadığını tespit ettik. Lütfen giriş yaparak profil bilgilerinizi kontrol edip güncelleyiniz.</p>
`))

// UpdateReminder renders the admin-triggered profile-update reminder.
func UpdateReminder(fullName, loginURL string) (string, error) {
	content, err := renderContent(updateReminderTmpl, map[string]string{
		"FullName": fullName,
	})
	if err != nil {
		return "", err
	}
	return Render("Profil Güncelleme Hatırlatması", content, "Giriş Yap", loginURL)
}
