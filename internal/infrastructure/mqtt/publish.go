package mqtt

import "fmt"

// Publish sends a message and waits for broker acknowledgment.
//
// Parameters:
//   - topic: Destination topic
//   - payload: Message payload
//   - retain: Whether the broker keeps the message for new subscribers
//
// Returns:
//   - error: ErrNotConnected or ErrPublishFailed
func (c *Client) Publish(topic string, payload []byte, retain bool) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, byte(c.cfg.QoS), retain, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout on %s", ErrPublishFailed, topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublishFailed, topic, err)
	}
	return nil
}

// PublishAsync sends a message without blocking the caller. Delivery
// errors are reported through the client logger. Used on hot paths
// like the status mirror, where a slow broker must not stall update
// delivery.
//
// Parameters:
//   - topic: Destination topic
//   - payload: Message payload
//   - retain: Whether the broker keeps the message for new subscribers
func (c *Client) PublishAsync(topic string, payload []byte, retain bool) {
	token := c.client.Publish(topic, byte(c.cfg.QoS), retain, payload)

	go func() {
		if !token.WaitTimeout(defaultPublishTimeout) {
			if logger := c.getLogger(); logger != nil {
				logger.Warn("MQTT publish timed out", "topic", topic)
			}
			return
		}
		if err := token.Error(); err != nil {
			if logger := c.getLogger(); logger != nil {
				logger.Warn("MQTT publish failed", "topic", topic, "error", err)
			}
		}
	}()
}
