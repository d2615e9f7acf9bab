// Package entity holds the per-device consumers that sit between the
// update router and the control executor.
//
// One Entity type serves all four device classes. The class tag picks
// the status decoding rules applied to incoming updates and gates
// which commands the entity accepts. Activation subscribes the entity
// to its routing key; deactivation unsubscribes it. Commands update
// the displayed state optimistically once the control binary reports
// success, and the next status reading confirms or corrects it.
package entity
