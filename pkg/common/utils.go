package common

import (
	"math/rand"
	"strings"
	"time"
)

// GenerateTrxNo returns a short human-readable transaction code used on
// receipts and audit rows.
func GenerateTrxNo() string {
	const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	result := make([]byte, 7)
	for i := range result {
		result[i] = characters[r.Intn(len(characters))]
	}
	return string(result)
}

// ReferralCodeFromID derives a user's shareable referral code from their
// account id.
func ReferralCodeFromID(id string) string {
	code := strings.ReplaceAll(id, "-", "")
	if len(code) > 8 {
		code = code[:8]
	}
	return strings.ToUpper(code)
}
