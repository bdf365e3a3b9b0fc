package config

import (
	"fmt"
	"os"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"
const DATE_FORMAT = "2006-01-02"
const SLOT_TIME_FORMAT = "15:04"

// IST is the timezone every "is this slot still bookable today" check runs in.
var IST = time.FixedZone("IST", 5*60*60+30*60)

const OTP_EXPIRY = 10 * time.Minute
const OTP_MAX_ATTEMPTS = 5
const OTP_REVERIFY_WINDOW = 2 * time.Minute
const BOOKING_HOLD_EXPIRY = 1 * time.Hour

const DEFAULT_PHONE_PREFIX = "+91"

var API_HOST = os.Getenv("API_HOST")
var API_SECRET = os.Getenv("API_SECRET")
var OAUTH_CLIENT_ID = os.Getenv("OAUTH_CLIENT_ID")
var OAUTH_CLIENT_SECRET = os.Getenv("OAUTH_CLIENT_SECRET")
