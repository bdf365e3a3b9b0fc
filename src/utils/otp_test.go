package utils

import (
	"testing"
	"time"

	"bucketlistt/src/config"
	"bucketlistt/src/models"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOTP(t *testing.T) {
	code, err := GenerateOTP()
	assert.Nil(t, err)
	assert.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}
}

func TestNormalizePhone(t *testing.T) {
	normalized, err := NormalizePhone("98765 43210")
	assert.Nil(t, err)
	assert.Equal(t, "+919876543210", normalized)

	normalized, err = NormalizePhone("+14155552671")
	assert.Nil(t, err)
	assert.Equal(t, "+14155552671", normalized)

	normalized, err = NormalizePhone("(987) 654-3210")
	assert.Nil(t, err)
	assert.Equal(t, "+919876543210", normalized)

	_, err = NormalizePhone("12ab34")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = NormalizePhone("")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestNormalizeIdentifier(t *testing.T) {
	email, err := NormalizeIdentifier("  Someone@Example.COM ", "email")
	assert.Nil(t, err)
	assert.Equal(t, "someone@example.com", email)

	_, err = NormalizeIdentifier("not-an-email", "email")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	phone, err := NormalizeIdentifier("9876543210", "phone")
	assert.Nil(t, err)
	assert.Equal(t, "+919876543210", phone)

	_, err = NormalizeIdentifier("someone@example.com", "telegram")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func freshOTPRow(code string, now time.Time) *models.OTPVerification {
	return &models.OTPVerification{
		Identifier: "someone@example.com",
		AuthMethod: "email",
		OTPCode:    code,
		ExpiresAt:  now.Add(config.OTP_EXPIRY),
	}
}

func TestEvaluateOTPHappyPath(t *testing.T) {
	now := time.Now()
	row := freshOTPRow("123456", now)

	err := EvaluateOTP(row, "123456", now)
	assert.Nil(t, err)
	assert.True(t, row.Verified)
	assert.NotNil(t, row.VerifiedAt)
}

func TestEvaluateOTPExpiredRegardlessOfCode(t *testing.T) {
	now := time.Now()
	row := freshOTPRow("123456", now)

	err := EvaluateOTP(row, "123456", now.Add(config.OTP_EXPIRY+time.Minute))
	assert.ErrorIs(t, err, ErrOTPExpired)
	assert.False(t, row.Verified)
}

func TestEvaluateOTPWrongCodeCountsAttempt(t *testing.T) {
	now := time.Now()
	row := freshOTPRow("123456", now)

	err := EvaluateOTP(row, "654321", now)
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Equal(t, uint(1), row.Attempts)
}

func TestEvaluateOTPLockedAfterMaxAttempts(t *testing.T) {
	now := time.Now()
	row := freshOTPRow("123456", now)

	for i := 0; i < int(config.OTP_MAX_ATTEMPTS); i++ {
		err := EvaluateOTP(row, "000000", now)
		assert.ErrorIs(t, err, ErrInvalidCode)
	}
	assert.Equal(t, uint(config.OTP_MAX_ATTEMPTS), row.Attempts)

	// even the right code is refused once the row is locked
	err := EvaluateOTP(row, "123456", now)
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.False(t, row.Verified)
}

func TestEvaluateOTPReverifyWindow(t *testing.T) {
	now := time.Now()
	row := freshOTPRow("123456", now)

	assert.Nil(t, EvaluateOTP(row, "123456", now))

	// within the window the same code verifies again
	later := now.Add(config.OTP_REVERIFY_WINDOW - time.Second)
	assert.Nil(t, EvaluateOTP(row, "123456", later))

	// outside the window the consumed code is gone
	past := now.Add(config.OTP_REVERIFY_WINDOW + time.Second)
	assert.ErrorIs(t, EvaluateOTP(row, "123456", past), ErrOTPNotFound)

	// a different code never re-verifies
	assert.ErrorIs(t, EvaluateOTP(row, "999999", later), ErrOTPNotFound)
}

func TestEvaluateOTPNilRow(t *testing.T) {
	assert.ErrorIs(t, EvaluateOTP(nil, "123456", time.Now()), ErrOTPNotFound)
}
