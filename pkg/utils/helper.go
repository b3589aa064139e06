package utils

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

// GenerateBookingReference creates a human-facing booking reference.
// Format: RNT-YYYYMMDD-HHMMSS-RANDOM
func GenerateBookingReference() string {
	now := time.Now()

	datePart := now.Format("20060102")
	timePart := now.Format("150405")
	randomPart := fmt.Sprintf("%04d", rand.Intn(10000))

	return fmt.Sprintf("RNT-%s-%s-%s", datePart, timePart, randomPart)
}
