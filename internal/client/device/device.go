// Package device derives the coarse device descriptor sent with OTP and
// device-trust requests.
package device

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/dmitrijs2005/skillsync/internal/client/models"
)

// UnknownDevice is the label for user agents matching no known family.
const UnknownDevice = "Unknown Device"

// Version is reported in the CLI user agent.
var Version = "dev"

// labels are checked in order; iPhone and iPad must precede Mac because
// their user agents contain "like Mac OS X", and Android must precede Linux.
var labels = []struct {
	needle string
	label  string
}{
	{"iPhone", "iPhone"},
	{"iPad", "iPad"},
	{"Android", "Android Device"},
	{"Windows", "Windows PC"},
	{"Mac", "Mac"},
	{"Linux", "Linux PC"},
}

// ClassifyDeviceName maps a user agent to a human-readable device label.
func ClassifyDeviceName(userAgent string) string {
	for _, l := range labels {
		if strings.Contains(userAgent, l.needle) {
			return l.label
		}
	}
	return UnknownDevice
}

// GetDeviceInfo builds the descriptor for userAgent. The IP address is a
// placeholder filled in by the server.
func GetDeviceInfo(userAgent string) models.DeviceInfo {
	return models.DeviceInfo{
		UserAgent:  userAgent,
		IPAddress:  models.IPAddressPlaceholder,
		DeviceName: ClassifyDeviceName(userAgent),
	}
}

// DefaultUserAgent describes the running binary in user-agent form so it
// classifies like a browser on the same platform would.
func DefaultUserAgent() string {
	return userAgentFor(runtime.GOOS, runtime.GOARCH)
}

func userAgentFor(goos, goarch string) string {
	var platform string
	switch goos {
	case "darwin":
		platform = "Macintosh; Mac OS X"
	case "windows":
		platform = "Windows NT"
	case "linux":
		platform = "X11; Linux " + goarch
	case "android":
		platform = "Linux; Android"
	case "ios":
		platform = "iPhone; CPU iPhone OS"
	default:
		platform = goos + "; " + goarch
	}
	return fmt.Sprintf("skillsync-cli/%s (%s)", Version, platform)
}
