// Package router delivers status updates from the push listener and
// the sync coordinator to whichever consumers are subscribed to the
// matching routing key.
//
// Subscription is by exact "serial:smap" key. Delivery is synchronous
// and carries no history: late subscribers see only future updates.
// Taps observe every update regardless of key, feeding the MQTT
// mirror and the status history recorder.
package router
