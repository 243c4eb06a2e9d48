package whatsapp

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// DeepLink arma el link wa.me para abrir una conversación con el lead
// desde la UI. No manda nada por sí solo.
func DeepLink(phone, text string) (string, error) {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	if len(cleaned) < 8 {
		return "", fmt.Errorf("phone number too short: %q", phone)
	}

	// wa.me espera el número en formato internacional sin el +. Los
	// celulares argentinos sin prefijo reciben 549.
	if !strings.HasPrefix(cleaned, "54") && len(cleaned) <= 11 {
		cleaned = "549" + cleaned
	}

	link := "https://wa.me/" + cleaned
	if text != "" {
		link += "?text=" + url.QueryEscape(text)
	}
	return link, nil
}

// GreetingText arma el texto precargado del primer contacto.
func GreetingText(name, agencyName string) string {
	if name == "" {
		return fmt.Sprintf("¡Hola! Te escribimos de %s por tu consulta de viaje.", agencyName)
	}
	return fmt.Sprintf("¡Hola %s! Te escribimos de %s por tu consulta de viaje.", name, agencyName)
}
