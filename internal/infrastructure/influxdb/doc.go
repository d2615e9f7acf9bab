// Package influxdb records device status history in InfluxDB v2.
//
// Every update flowing through the update router is written as one
// point in the device_status measurement, tagged by routing key.
// Writes are batched and asynchronous; a slow or absent InfluxDB
// never blocks state synchronization. The recorder is optional and
// disabled by default.
package influxdb
