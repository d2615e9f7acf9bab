package entity

import (
	"testing"

	"github.com/smarteefi/smarteefi-bridge/internal/device"
	"github.com/smarteefi/smarteefi-bridge/internal/router"
)

func TestSetApplyAddsAndActivates(t *testing.T) {
	runner := &fakeRunner{}
	r := router.New()
	set := NewSet(runner, r, nil)

	set.Apply([]device.Device{
		{ID: "SE1:0:1", CloudID: 1, Class: device.ClassSwitch, Name: "Hall"},
		{ID: "SE1:0:2", CloudID: 1, Class: device.ClassFan, Name: "Fan"},
	}, nil)

	if set.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", set.Len())
	}

	// Added entities must be live: a published update lands in state.
	r.Publish(router.StatusUpdate{
		RoutingKey: "SE1:1",
		Available:  true,
		Smap:       1,
		Status:     1,
	})

	e, ok := set.Get("SE1:0:1")
	if !ok {
		t.Fatal("Get(SE1:0:1) not found")
	}
	st := e.State()
	if !st.Available || !st.On {
		t.Errorf("state after update = %+v, want available and on", st)
	}
}

func TestSetApplyRemovesAndDeactivates(t *testing.T) {
	runner := &fakeRunner{}
	r := router.New()
	set := NewSet(runner, r, nil)

	d := device.Device{ID: "SE1:0:1", CloudID: 1, Class: device.ClassSwitch, Name: "Hall"}
	set.Apply([]device.Device{d}, nil)
	set.Apply(nil, []device.Device{d})

	if set.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", set.Len())
	}
	if got := r.SubscriberCount("SE1:1"); got != 0 {
		t.Errorf("SubscriberCount = %d, want 0 after removal", got)
	}
}

func TestSetApplySkipsMalformedIDs(t *testing.T) {
	set := NewSet(&fakeRunner{}, router.New(), nil)

	set.Apply([]device.Device{
		{ID: "not-a-device-id", CloudID: 1, Class: device.ClassSwitch},
		{ID: "SE1:0:1", CloudID: 1, Class: device.ClassSwitch},
	}, nil)

	if set.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (malformed skipped)", set.Len())
	}
}

func TestSetApplyIsIdempotentForDuplicates(t *testing.T) {
	set := NewSet(&fakeRunner{}, router.New(), nil)

	d := device.Device{ID: "SE1:0:1", CloudID: 1, Class: device.ClassSwitch}
	set.Apply([]device.Device{d}, nil)
	set.Apply([]device.Device{d}, nil)

	if set.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", set.Len())
	}
}

func TestSetAllSorted(t *testing.T) {
	set := NewSet(&fakeRunner{}, router.New(), nil)

	set.Apply([]device.Device{
		{ID: "SE2:0:1", CloudID: 2, Class: device.ClassSwitch},
		{ID: "SE1:0:1", CloudID: 1, Class: device.ClassSwitch},
	}, nil)

	all := set.All()
	if len(all) != 2 {
		t.Fatalf("All() returned %d entities, want 2", len(all))
	}
	if all[0].Device().ID != "SE1:0:1" || all[1].Device().ID != "SE2:0:1" {
		t.Errorf("All() order = [%s %s], want sorted by ID",
			all[0].Device().ID, all[1].Device().ID)
	}
}

func TestSetClose(t *testing.T) {
	r := router.New()
	set := NewSet(&fakeRunner{}, r, nil)

	set.Apply([]device.Device{
		{ID: "SE1:0:1", CloudID: 1, Class: device.ClassSwitch},
	}, nil)
	set.Close()

	if set.Len() != 0 {
		t.Errorf("Len() = %d after Close, want 0", set.Len())
	}
	if got := r.SubscriberCount("SE1:1"); got != 0 {
		t.Errorf("SubscriberCount = %d after Close, want 0", got)
	}
}
