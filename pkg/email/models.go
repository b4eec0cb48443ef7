package email

const (
	SMTPHost  = "smtp.gmail.com"
	SMTPPort  = 587
	FromEmail = "noreply@mandirapp.com"
)

type SendEmailInput struct {
	To      string
	Subject string
	Body    string
}
