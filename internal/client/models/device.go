package models

// IPAddressPlaceholder is sent in place of the client address; the backend
// records the address it actually sees.
const IPAddressPlaceholder = "client"

// DeviceInfo describes the device asking to be trusted.
type DeviceInfo struct {
	UserAgent  string `json:"userAgent"`
	IPAddress  string `json:"ipAddress"`
	DeviceName string `json:"deviceName"`
}
