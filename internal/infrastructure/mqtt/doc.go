// Package mqtt mirrors device status updates to an MQTT broker.
//
// The bridge is publish-only on MQTT: every status update flowing
// through the update router is republished as a retained JSON message
// on smarteefi/status/{serial}/{smap}, and the bridge's own lifecycle
// is announced on smarteefi/bridge/status with a Last Will for crash
// detection. Mirroring is optional and disabled by default.
package mqtt
