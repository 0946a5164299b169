package v1alpha1

// HandshakeType is the discriminator carried by every handshake payload so
// scanner apps can reject codes produced by other systems.
const HandshakeType = "pi_board_device"

// HandshakePayload is the JSON object encoded into the visual pairing code
// shown on an unpaired display. Field names follow the scanner app contract.
type HandshakePayload struct {
	// Type is always HandshakeType
	Type string `json:"type"`
	// DeviceCode is the 6-digit pairing code
	DeviceCode string `json:"device_code"`
	// DeviceID is the device's stable identifier
	DeviceID string `json:"device_id"`
	// Timestamp is when the code was issued, in Unix milliseconds
	Timestamp int64 `json:"timestamp"`
}
