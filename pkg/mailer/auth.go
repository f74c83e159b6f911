package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// loginAuth speaks AUTH LOGIN for relays that offer neither PLAIN nor TLS.
type loginAuth struct {
	username, password string
}

func (a *loginAuth) Start(_ *smtp.ServerInfo) (proto string, toServer []byte, err error) {
	return "LOGIN", nil, nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if !more {
		return nil, nil
	}
	challenge := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(string(fromServer)), ":"))
	switch challenge {
	case "username":
		return []byte(a.username), nil
	case "password":
		return []byte(a.password), nil
	default:
		return nil, fmt.Errorf("unexpected server challenge: %s", challenge)
	}
}
