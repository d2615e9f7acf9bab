package device

import (
	"sort"
	"strconv"
)

// Group is the set of Devices sharing one physical controller, polled
// together with a single combined status read.
//
// Groups are ephemeral: the coordinator rebuilds them from the current
// device list on every poll pass, so inventory changes take effect on
// the next tick without any group bookkeeping.
type Group struct {
	// Key is the shared "serial:module" prefix.
	Key string

	// Serial identifies the physical controller.
	Serial string

	// CombinedSmap is the bitwise OR of all member smap values.
	CombinedSmap uint32

	// Members are the devices in the group, in input order.
	Members []Device
}

// PollDeviceID is the device-id argument for the group's get-status
// command: the shared prefix with the combined smap in place of any
// single member's bit.
func (g *Group) PollDeviceID() string {
	return g.Key + ":" + strconv.FormatUint(uint64(g.CombinedSmap), 10)
}

// CloudID returns the cloud identifier used for the group poll. All
// members share a controller, so the first member's cloud ID serves.
func (g *Group) CloudID() int {
	if len(g.Members) == 0 {
		return 0
	}
	return g.Members[0].CloudID
}

// GroupDevices partitions devices into Groups by their "serial:module"
// prefix, OR-combining each member's smap into the group mask.
//
// One physical controller then needs exactly one poll command no
// matter how many logical sub-devices it exposes; each consumer
// recovers its own bit from the combined reading.
//
// Devices whose ID does not parse are returned separately so the
// caller can log them; they never silently vanish.
//
// Parameters:
//   - devices: Current device list
//
// Returns:
//   - []Group: Groups sorted by Key for deterministic poll order
//   - []Device: Devices skipped because their ID failed to parse
func GroupDevices(devices []Device) ([]Group, []Device) {
	byKey := make(map[string]*Group)
	var skipped []Device

	for _, d := range devices {
		ident, err := d.Identity()
		if err != nil {
			skipped = append(skipped, d)
			continue
		}

		key := ident.GroupKey()
		g, ok := byKey[key]
		if !ok {
			g = &Group{Key: key, Serial: ident.Serial}
			byKey[key] = g
		}
		g.CombinedSmap |= ident.Smap
		g.Members = append(g.Members, d)
	}

	groups := make([]Group, 0, len(byKey))
	for _, g := range byKey {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })

	return groups, skipped
}
