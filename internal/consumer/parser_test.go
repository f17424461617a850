package consumer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/domain"
)

func TestJSONEventParser_Parse_Delivery(t *testing.T) {
	parser := NewJSONEventParser(domain.EventTypeDelivery)

	body := []byte(`{
		"eventId": "evt-1",
		"mockEmailId": "mock-1",
		"emailId": "eml_1",
		"status": "PARTIALLY_DELIVERED",
		"timestamp": "2025-06-01T12:34:56Z"
	}`)

	event, err := parser.Parse(body)

	assert.NoError(t, err)
	assert.Equal(t, domain.EventTypeDelivery, event.Type)
	assert.Equal(t, domain.StatusPartiallyDelivered, event.Delivery.Status)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 34, 56, 0, time.UTC), event.OccurredAt)
}

func TestJSONEventParser_Parse_TypeComesFromChannel(t *testing.T) {
	// The same bytes decode as an open or a click depending on which
	// queue's parser sees them; payloads carry no type discriminator.
	body := []byte(`{"eventId": "evt-1", "emailId": "eml_1", "attachmentId": "att_1"}`)

	openEvent, err := NewJSONEventParser(domain.EventTypeOpen).Parse(body)
	assert.NoError(t, err)
	assert.Equal(t, domain.EventTypeOpen, openEvent.Type)
	assert.NotNil(t, openEvent.Open)
	assert.Nil(t, openEvent.Click)

	clickEvent, err := NewJSONEventParser(domain.EventTypeClick).Parse(body)
	assert.NoError(t, err)
	assert.Equal(t, domain.EventTypeClick, clickEvent.Type)
	assert.NotNil(t, clickEvent.Click)
	assert.Nil(t, clickEvent.Open)
}

func TestJSONEventParser_Parse_MissingRequiredField(t *testing.T) {
	parser := NewJSONEventParser(domain.EventTypeClick)

	_, err := parser.Parse([]byte(`{"eventId": "evt-1", "emailId": "eml_1"}`))

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingField)
}

func TestJSONEventParser_Parse_UnknownDeliveryStatus(t *testing.T) {
	parser := NewJSONEventParser(domain.EventTypeDelivery)

	_, err := parser.Parse([]byte(`{"eventId": "evt-1", "status": "BOUNCED"}`))

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingField)
}

func TestJSONEventParser_Parse_MalformedJSON(t *testing.T) {
	parser := NewJSONEventParser(domain.EventTypeOpen)

	_, err := parser.Parse([]byte(`{broken`))

	assert.Error(t, err)
}

func TestJSONEventParser_Parse_MissingTimestampFallsBackToNow(t *testing.T) {
	parser := NewJSONEventParser(domain.EventTypeOpen)

	before := time.Now().UTC()
	event, err := parser.Parse([]byte(`{"eventId": "evt-1", "emailId": "eml_1"}`))
	after := time.Now().UTC()

	assert.NoError(t, err)
	assert.False(t, event.OccurredAt.Before(before))
	assert.False(t, event.OccurredAt.After(after))
}

func TestJSONEventParser_Parse_LegacyTimestampLayout(t *testing.T) {
	parser := NewJSONEventParser(domain.EventTypeOpen)

	event, err := parser.Parse([]byte(`{"eventId": "evt-1", "emailId": "eml_1", "timestamp": "2025-06-01 09:00:00"}`))

	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), event.OccurredAt)
}
