// Package executor shells out to the external Smarteefi control
// binary, the only write path to the devices.
//
// The binary takes positional arguments: local address, netmask,
// subcommand, device id, cloud id, then subcommand-specific trailing
// arguments. Exit code 0 with stdout text is the sole success
// contract. The package also provides the retry-once helper the sync
// coordinator applies to poll commands.
package executor
