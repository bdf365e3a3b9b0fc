package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"bucketlistt/src/config"
	"bucketlistt/src/db"
	"bucketlistt/src/models"
	"bucketlistt/src/types"

	"gorm.io/gorm"
)

var (
	ErrInvalidIdentifier = errors.New("identifier is not a valid email or phone number")
	ErrOTPNotFound       = errors.New("no verification code found for this identifier")
	ErrOTPExpired        = errors.New("verification code has expired")
	ErrTooManyAttempts   = errors.New("too many failed attempts, request a new code")
	ErrInvalidCode       = errors.New("invalid verification code")
	ErrUserExists        = errors.New("an account with this identifier already exists")
	ErrUserNotFound      = errors.New("no account found for this identifier")
)

var phoneDigits = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// NormalizePhone strips separators and applies the default country
// prefix to bare 10-digit numbers.
func NormalizePhone(raw string) (string, error) {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" || !phoneDigits.MatchString(cleaned) {
		return "", ErrInvalidIdentifier
	}
	if strings.HasPrefix(cleaned, "+") {
		return cleaned, nil
	}
	if len(cleaned) == 10 {
		return config.DEFAULT_PHONE_PREFIX + cleaned, nil
	}
	return "+" + cleaned, nil
}

// NormalizeIdentifier validates and canonicalizes the identifier for
// the given auth method. Emails are lower-cased, phones E.164-ish.
func NormalizeIdentifier(identifier string, authMethod string) (string, error) {
	switch authMethod {
	case types.AUTH_METHOD_EMAIL:
		addr, err := mail.ParseAddress(strings.TrimSpace(identifier))
		if err != nil {
			return "", ErrInvalidIdentifier
		}
		return strings.ToLower(addr.Address), nil
	case types.AUTH_METHOD_PHONE:
		return NormalizePhone(identifier)
	default:
		return "", ErrInvalidIdentifier
	}
}

func GenerateOTP() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// CreateOTP invalidates every previous unverified code for the
// identifier and persists a fresh one. At most one live code exists
// per identifier and method at any time.
func CreateOTP(identifier string, authMethod string) (*models.OTPVerification, error) {
	d := db.GetDb()
	code, err := GenerateOTP()
	if err != nil {
		return nil, err
	}
	row := models.OTPVerification{
		Identifier: identifier,
		AuthMethod: authMethod,
		OTPCode:    code,
		ExpiresAt:  time.Now().Add(config.OTP_EXPIRY),
	}
	err = d.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where(&models.OTPVerification{Identifier: identifier, AuthMethod: authMethod}).
			Where("verified = ?", false).
			Delete(&models.OTPVerification{}).
			Error; err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		log.Printf("Error creating verification code for %s: %s\n", identifier, err.Error())
		return nil, err
	}
	return &row, nil
}

// EvaluateOTP applies the verification rules to the stored row. It
// mutates row (attempts, verified flags) but does not persist; the
// caller saves the row whatever the outcome so failed attempts count.
func EvaluateOTP(row *models.OTPVerification, code string, now time.Time) error {
	if row == nil {
		return ErrOTPNotFound
	}
	if row.Verified {
		if row.VerifiedAt != nil && now.Sub(*row.VerifiedAt) <= config.OTP_REVERIFY_WINDOW && row.OTPCode == code {
			return nil
		}
		return ErrOTPNotFound
	}
	if now.After(row.ExpiresAt) {
		return ErrOTPExpired
	}
	if row.Attempts >= config.OTP_MAX_ATTEMPTS {
		return ErrTooManyAttempts
	}
	if row.OTPCode != code {
		row.Attempts++
		return ErrInvalidCode
	}
	row.Verified = true
	row.VerifiedAt = &now
	return nil
}

// VerifyOTP loads the most recent code for the identifier, evaluates
// it and persists the outcome.
func VerifyOTP(identifier string, authMethod string, code string) error {
	d := db.GetDb()
	var row models.OTPVerification
	err := d.
		Where(&models.OTPVerification{Identifier: identifier, AuthMethod: authMethod}).
		Order("created_at DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOTPNotFound
		}
		return err
	}
	verr := EvaluateOTP(&row, code, time.Now())
	if err := d.Save(&row).Error; err != nil {
		log.Printf("Error saving verification row for %s: %s\n", identifier, err.Error())
		return err
	}
	return verr
}

// ReverifyOTP accepts only a code that was already verified and is
// still inside the re-verify window. Signup retries come through here
// after the first attempt created the account.
func ReverifyOTP(identifier string, authMethod string, code string) error {
	d := db.GetDb()
	var row models.OTPVerification
	err := d.
		Where(&models.OTPVerification{Identifier: identifier, AuthMethod: authMethod}).
		Where("verified = ?", true).
		Order("created_at DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOTPNotFound
		}
		return err
	}
	return EvaluateOTP(&row, code, time.Now())
}

// PurgeExpiredOTPs runs on a cron and hard-deletes stale rows.
func PurgeExpiredOTPs() {
	d := db.GetDb()
	res := d.
		Unscoped().
		Where("expires_at < ?", time.Now().Add(-24*time.Hour)).
		Delete(&models.OTPVerification{})
	if res.Error != nil {
		log.Printf("Error purging expired verification codes: %s\n", res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Purged %d expired verification codes\n", res.RowsAffected)
	}
}
