package v1alpha1

import "time"

// NetworkMetadata describes the network environment a device reported from
type NetworkMetadata struct {
	// Hostname is the device's local hostname
	Hostname string `json:"hostname,omitempty"`
	// LocalIP is the device's LAN address
	LocalIP string `json:"localIp,omitempty"`
	// UserAgent identifies the client software and version
	UserAgent string `json:"userAgent,omitempty"`
}

// DeviceRecord is the directory service's view of a display device
type DeviceRecord struct {
	// DeviceID is the stable opaque identifier generated by the device
	DeviceID string `json:"deviceId"`
	// Code is the most recently issued pairing code for the device
	Code string `json:"code"`
	// DisplayName is assigned once at first registration and never
	// overwritten while the device is paired
	DisplayName string `json:"displayName"`
	// OwnerID is the owning account, nil while unpaired
	OwnerID *string `json:"ownerId,omitempty"`
	// Online reports whether the device currently holds a session
	Online bool `json:"online"`
	// LastSeenAt is when the device last contacted the directory
	LastSeenAt time.Time `json:"lastSeenAt"`
	// Network holds metadata reported by the device at registration
	Network NetworkMetadata `json:"network,omitempty"`
}

// Paired reports whether the record belongs to an owning account
func (r *DeviceRecord) Paired() bool {
	return r != nil && r.OwnerID != nil && *r.OwnerID != ""
}

// UpsertDeviceRequest registers a device or refreshes its record
type UpsertDeviceRequest struct {
	// DeviceID identifies the device being registered
	DeviceID string `json:"deviceId"`
	// Code is the pairing code currently shown on the device
	Code string `json:"code"`
	// Online marks the device as holding a live session
	Online bool `json:"online"`
	// Network holds current network metadata
	Network NetworkMetadata `json:"network,omitempty"`
}

// SetCodeRequest replaces the pairing code stored for a device
type SetCodeRequest struct {
	// Code is the newly issued pairing code
	Code string `json:"code"`
}

// ValidateCodeRequest asks the directory whether a code is current
type ValidateCodeRequest struct {
	// Code is the pairing code to validate
	Code string `json:"code"`
}

// ValidateCodeResponse reports the validation outcome
type ValidateCodeResponse struct {
	// Valid is true when the code matches an unexpired device record
	Valid bool `json:"valid"`
}

// PresenceRequest updates a device's online flag
type PresenceRequest struct {
	// Online is the new presence state
	Online bool `json:"online"`
}
