package v1alpha1

import "time"

// ChangeMessageType defines the kinds of messages carried on change streams
type ChangeMessageType string

const (
	// ChangeMessageDeviceUpdate carries an updated device record
	ChangeMessageDeviceUpdate ChangeMessageType = "DEVICE_UPDATE"
	// ChangeMessageBindingChange signals a binding change for the device
	ChangeMessageBindingChange ChangeMessageType = "BINDING_CHANGE"
	// ChangeMessageContentChange signals any content item change
	ChangeMessageContentChange ChangeMessageType = "CONTENT_CHANGE"
	// ChangeMessagePing is a keepalive with no payload
	ChangeMessagePing ChangeMessageType = "PING"
)

// ChangeMessage is a single message on a change-notification stream. Binding
// and content streams carry bare signals; the client always re-pulls the full
// playlist rather than applying diffs.
type ChangeMessage struct {
	// Type indicates the kind of change
	Type ChangeMessageType `json:"type"`
	// Device contains the updated record for DEVICE_UPDATE messages
	Device *DeviceRecord `json:"device,omitempty"`
	// Timestamp indicates when the change was observed
	Timestamp time.Time `json:"timestamp"`
}
