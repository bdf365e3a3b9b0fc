package utils

import (
	"os"
	"strings"
	"testing"
	"time"

	"bucketlistt/src/config"

	"github.com/stretchr/testify/assert"
)

func TestWithSuffix(t *testing.T) {
	os.Unsetenv("QUEUE_SUFFIX")
	assert.Equal(t, "emails_to_send", WithSuffix("emails_to_send"))

	os.Setenv("QUEUE_SUFFIX", "staging")
	defer os.Unsetenv("QUEUE_SUFFIX")
	assert.Equal(t, "emails_to_send_staging", WithSuffix("emails_to_send"))
}

func TestUniqueSlug(t *testing.T) {
	s := UniqueSlug("Scuba Diving in Goa", func(s string) bool { return false })
	assert.Equal(t, "scuba-diving-in-goa", s)

	s = UniqueSlug("Scuba Diving in Goa", func(s string) bool { return s == "scuba-diving-in-goa" })
	assert.True(t, strings.HasPrefix(s, "scuba-diving-in-goa-"))
	assert.Greater(t, len(s), len("scuba-diving-in-goa-"))
}

func TestNewBookingReference(t *testing.T) {
	ref := NewBookingReference()
	assert.True(t, strings.HasPrefix(ref, "BKT-"))
	assert.Len(t, ref, 14)
	assert.Equal(t, strings.ToUpper(ref), ref)

	assert.NotEqual(t, ref, NewBookingReference())
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	message := `{"bookingId":42,"referenceId":"BKT-1A2B3C4D5E"}`

	enc, err := EncryptMessage(key, message)
	assert.Nil(t, err)
	assert.NotEqual(t, message, enc)

	dec, err := DecryptMessage(key, enc)
	assert.Nil(t, err)
	assert.Equal(t, message, *dec)
}

func TestDecryptRejectsTamperedMessage(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	enc, err := EncryptMessage(key, "hello")
	assert.Nil(t, err)

	tampered := enc[:len(enc)-2] + "00"
	if strings.HasSuffix(enc, "00") {
		tampered = enc[:len(enc)-2] + "11"
	}
	_, err = DecryptMessage(key, tampered)
	assert.NotNil(t, err)
}

func TestTodayIST(t *testing.T) {
	// 20:00 UTC is already the next day in IST
	now := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	today := TodayIST(now)

	assert.Equal(t, 2026, today.Year())
	assert.Equal(t, time.March, today.Month())
	assert.Equal(t, 15, today.Day())
	assert.Equal(t, 0, today.Hour())
	assert.Equal(t, config.IST, today.Location())
}
