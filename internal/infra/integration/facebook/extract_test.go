package facebook

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_FacebookFieldDataShape(t *testing.T) {
	raw := json.RawMessage(`{
		"field_data": [
			{"name": "full_name", "values": ["María Pérez"]},
			{"name": "phone_number", "values": ["+54 9 351 444-5555"]},
			{"name": "provincia", "values": ["Córdoba"]},
			{"name": "destino", "values": ["Bariloche"]},
			{"name": "pax", "values": ["3"]}
		]
	}`)

	lead := Extract(raw)

	assert.Equal(t, "María Pérez", lead.Name)
	assert.Equal(t, "+54 9 351 444-5555", lead.Phone)
	assert.Equal(t, "Córdoba", lead.Province)
	assert.Equal(t, "Bariloche", lead.Origin)
	assert.Equal(t, 3, lead.PaxCount)
}

func TestExtract_MakeFlatShape(t *testing.T) {
	raw := json.RawMessage(`{
		"nombre": "Juan Gómez",
		"whatsapp": "1155550000",
		"viaje": "Cataratas",
		"pasajeros": 2,
		"fecha_viaje": "2026-11-01"
	}`)

	lead := Extract(raw)

	assert.Equal(t, "Juan Gómez", lead.Name)
	assert.Equal(t, "1155550000", lead.Phone)
	assert.Equal(t, "Cataratas", lead.Origin)
	assert.Equal(t, 2, lead.PaxCount)
	assert.Equal(t, "2026-11-01", lead.TravelDate)
}

func TestExtract_AliasPriorityFirstMatchWins(t *testing.T) {
	// full_name va antes que name en la lista de alias.
	raw := json.RawMessage(`{"full_name": "Prioridad", "name": "Ignorado"}`)
	assert.Equal(t, "Prioridad", Extract(raw).Name)
}

func TestExtract_FallbacksWhenNothingMatches(t *testing.T) {
	lead := Extract(json.RawMessage(`{"campo_raro": "valor"}`))

	assert.Equal(t, "Sin nombre", lead.Name)
	assert.Empty(t, lead.Phone)
	assert.Empty(t, lead.Province)
	assert.Zero(t, lead.PaxCount)
}

func TestExtract_KeysAreCaseInsensitive(t *testing.T) {
	raw := json.RawMessage(`{"  Nombre ": "Con espacios", "TELEFONO": "1144443333"}`)
	lead := Extract(raw)

	assert.Equal(t, "Con espacios", lead.Name)
	assert.Equal(t, "1144443333", lead.Phone)
}

func TestExtract_GarbagePaxIgnored(t *testing.T) {
	raw := json.RawMessage(`{"nombre": "Ana", "pax": "varios"}`)
	assert.Zero(t, Extract(raw).PaxCount)
}

func TestExtract_InvalidJSONYieldsFallbacks(t *testing.T) {
	lead := Extract(json.RawMessage(`no es json`))
	assert.Equal(t, "Sin nombre", lead.Name)
}
