package mqtt

import "fmt"

// Topic prefixes for the bridge's MQTT output.
//
// The mirror uses the flat scheme: smarteefi/{category}/{serial}/{smap}
const (
	// TopicPrefix is the base for all bridge topics.
	TopicPrefix = "smarteefi"

	// TopicPrefixStatus is the base for device status topics.
	TopicPrefixStatus = "smarteefi/status"

	// TopicPrefixBridge is the base for bridge lifecycle topics.
	TopicPrefixBridge = "smarteefi/bridge"
)

// Topics provides builders for the bridge's MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
//
//	topics := mqtt.Topics{}
//	statusTopic := topics.DeviceStatus("SE123456", 2)
//	// Returns: "smarteefi/status/SE123456/2"
type Topics struct{}

// DeviceStatus returns the topic for one routing key's status mirror.
//
// Example: smarteefi/status/SE123456/2
func (Topics) DeviceStatus(serial string, smap uint32) string {
	return fmt.Sprintf("%s/%s/%d", TopicPrefixStatus, serial, smap)
}

// BridgeStatus returns the bridge lifecycle status topic.
//
// Example: smarteefi/bridge/status
func (Topics) BridgeStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixBridge)
}

// AllDeviceStatus returns a pattern matching every mirrored device.
//
// Pattern: smarteefi/status/+/+
func (Topics) AllDeviceStatus() string {
	return fmt.Sprintf("%s/+/+", TopicPrefixStatus)
}
