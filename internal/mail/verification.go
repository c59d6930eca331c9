package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

const verificationSubject = "Verify Crypto Watchlist Account"

var verificationHTML = template.Must(template.New("verify").Parse(`<h2 style="color: #00ff64;">Welcome to Crypto Watchlist!</h2>
<p>Click below to verify your email:</p>
<a href="{{.Link}}" style="background: #00ff64; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; font-weight: bold;">Verify Email Now</a>
<p>Or use this token: <strong>{{.Token}}</strong></p>
`))

// VerificationLink builds the client-side URL that carries the verification token.
func VerificationLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/verify?token=" + url.QueryEscape(token)
}

func VerificationEmail(to, baseURL, token string) (Message, error) {
	link := VerificationLink(baseURL, token)

	var buf bytes.Buffer
	if err := verificationHTML.Execute(&buf, struct{ Link, Token string }{link, token}); err != nil {
		return Message{}, fmt.Errorf("render verification email: %w", err)
	}

	return Message{
		To:      to,
		Subject: verificationSubject,
		HTML:    buf.String(),
		Text:    fmt.Sprintf("Verify your Crypto Watchlist account: %s\nToken: %s\n", link, token),
	}, nil
}
