package facebook

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Los formularios de Lead Ads y los escenarios de Make traen los campos con
// nombres distintos según quién armó el formulario. La heurística: primer
// alias que matchee, si no, el fallback literal.
var (
	nameAliases     = []string{"full_name", "name", "nombre", "nombre_completo", "first_name"}
	phoneAliases    = []string{"phone_number", "phone", "telefono", "teléfono", "celular", "whatsapp"}
	provinceAliases = []string{"province", "provincia", "state", "region", "ciudad"}
	originAliases   = []string{"destination", "destino", "origin", "viaje", "paquete", "trip"}
	paxAliases      = []string{"pax", "pax_count", "pasajeros", "cantidad_pasajeros", "travelers"}
	dateAliases     = []string{"travel_date", "fecha_viaje", "fecha", "departure_date"}
)

type ExtractedLead struct {
	Name       string
	Phone      string
	Province   string
	Origin     string
	PaxCount   int
	TravelDate string
}

// fbPayload es la forma nativa de Facebook Lead Ads.
type fbPayload struct {
	FieldData []struct {
		Name   string   `json:"name"`
		Values []string `json:"values"`
	} `json:"field_data"`
}

// Extract aplana el payload (field_data de Facebook o el objeto chato que
// manda Make) y aplica la heurística de alias.
func Extract(raw json.RawMessage) ExtractedLead {
	fields := flatten(raw)

	lead := ExtractedLead{
		Name:       firstMatch(fields, nameAliases, "Sin nombre"),
		Phone:      firstMatch(fields, phoneAliases, ""),
		Province:   firstMatch(fields, provinceAliases, ""),
		Origin:     firstMatch(fields, originAliases, ""),
		TravelDate: firstMatch(fields, dateAliases, ""),
	}

	if pax := firstMatch(fields, paxAliases, ""); pax != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(pax)); err == nil && n > 0 {
			lead.PaxCount = n
		}
	}

	return lead
}

func flatten(raw json.RawMessage) map[string]string {
	fields := make(map[string]string)

	// Primero la forma de Facebook: {"field_data":[{"name":..,"values":[..]}]}
	var fb fbPayload
	if err := json.Unmarshal(raw, &fb); err == nil && len(fb.FieldData) > 0 {
		for _, f := range fb.FieldData {
			if len(f.Values) > 0 {
				fields[normalize(f.Name)] = f.Values[0]
			}
		}
		return fields
	}

	// Si no, objeto chato clave/valor (Make). Valores no-string se ignoran
	// salvo números.
	var flat map[string]any
	if err := json.Unmarshal(raw, &flat); err != nil {
		return fields
	}
	for k, v := range flat {
		switch val := v.(type) {
		case string:
			fields[normalize(k)] = val
		case float64:
			fields[normalize(k)] = strconv.FormatFloat(val, 'f', -1, 64)
		}
	}
	return fields
}

func firstMatch(fields map[string]string, aliases []string, fallback string) string {
	for _, alias := range aliases {
		if v, ok := fields[alias]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return fallback
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
