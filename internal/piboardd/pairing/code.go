// Package pairing implements the device pairing flow: code issuance and
// rotation, handshake payload encoding, and the paired/unpaired state
// machine driven by directory updates.
package pairing

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/Am0lShah/Display-Output/api/types/v1alpha1"
)

// CodeValidity is how long an issued code remains current before rotation
const CodeValidity = 600 * time.Second

// Code is a pairing code issued for the current session
type Code struct {
	// Value is the 6-digit numeric code
	Value string `json:"value"`
	// IssuedAt is when the code was generated
	IssuedAt time.Time `json:"issuedAt"`
}

// GenerateCode issues a new 6-digit numeric code. Generation never fails:
// if the system's entropy source is unavailable a time-derived placeholder
// is returned so the UI always has something displayable.
func GenerateCode() Code {
	now := time.Now()

	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return Code{
			Value:    fmt.Sprintf("%06d", now.UnixNano()%1000000),
			IssuedAt: now,
		}
	}

	return Code{
		Value:    fmt.Sprintf("%06d", n.Int64()),
		IssuedAt: now,
	}
}

// ExpiresAt is when the code stops being current
func (c Code) ExpiresAt() time.Time {
	return c.IssuedAt.Add(CodeValidity)
}

// Expired reports whether the code is past its validity window at now
func (c Code) Expired(now time.Time) bool {
	return c.Value == "" || !now.Before(c.ExpiresAt())
}

// Handshake builds the payload encoded into the visual pairing code
func Handshake(deviceID string, c Code) v1alpha1.HandshakePayload {
	return v1alpha1.HandshakePayload{
		Type:       v1alpha1.HandshakeType,
		DeviceCode: c.Value,
		DeviceID:   deviceID,
		Timestamp:  c.IssuedAt.UnixMilli(),
	}
}

// EncodeHandshake renders the handshake payload as the JSON string handed
// to the visual code renderer
func EncodeHandshake(p v1alpha1.HandshakePayload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("error encoding handshake payload: %w", err)
	}
	return string(data), nil
}
