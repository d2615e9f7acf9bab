// Package coordinator drives the pull half of state synchronization.
//
// On a timer it groups the device inventory by physical controller,
// polls each group once with a combined smap mask, and publishes the
// reading to every member's routing key. Group polls run strictly one
// at a time with a pause between them to bound load on the device
// network; a failed poll gets exactly one retry before the whole group
// is marked unavailable.
//
// The timer fires quickly once after startup, then settles into the
// regular interval for good.
package coordinator
