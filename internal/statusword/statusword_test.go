package statusword

import (
	"errors"
	"testing"
)

func TestDecodeSwitch(t *testing.T) {
	tests := []struct {
		name   string
		smap   uint32
		status uint32
		wantOn bool
	}{
		{"own bit set", 0x02, 0x02, true},
		{"bit overlap in combined word", 0x02, 0x05, false},
		{"overlapping combined word", 0x02, 0x07, true},
		{"other bit set", 0x02, 0x01, false},
		{"zero status", 0x02, 0, false},
		{"zero status zero smap", 0, 0, false},
		{"high bit", 0x80000000, 0x80000000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeSwitch(tt.smap, tt.status)
			if got.On != tt.wantOn {
				t.Errorf("DecodeSwitch(%#x, %#x).On = %v, want %v",
					tt.smap, tt.status, got.On, tt.wantOn)
			}
		})
	}
}

func TestDecodeFan(t *testing.T) {
	tests := []struct {
		name       string
		status     uint32
		wantOn     bool
		wantSpeed  int
		wantPct    int
	}{
		{"speed 4", 0x40, true, 4, 100},
		{"speed 3", 0x30, true, 3, 75},
		{"speed 2", 0x20, true, 2, 50},
		{"speed 1", 0x10, true, 1, 25},
		{"off", 0, false, 0, 0},
		{"r3 wins over r1", 0x50, true, 4, 100},
		{"r3 wins over all", 0x70, true, 4, 100},
		{"non-speed bit only", 0x01, true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeFan(tt.status)
			if got.On != tt.wantOn || got.Speed != tt.wantSpeed || got.Percentage != tt.wantPct {
				t.Errorf("DecodeFan(%#x) = %+v, want on=%v speed=%d pct=%d",
					tt.status, got, tt.wantOn, tt.wantSpeed, tt.wantPct)
			}
		})
	}
}

func TestDecodeCover(t *testing.T) {
	tests := []struct {
		name     string
		smap     uint32
		status   uint32
		wantOpen bool
		wantPos  int
	}{
		{"exact match is open", 0x01, 0x01, true, PositionOpen},
		{"zero status is closed", 0x01, 0, false, PositionClosed},
		{"superset is closed", 0x01, 0x03, false, PositionClosed},
		{"different bit is closed", 0x01, 0x02, false, PositionClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeCover(tt.smap, tt.status)
			if got.Open != tt.wantOpen || got.Position != tt.wantPos {
				t.Errorf("DecodeCover(%#x, %#x) = %+v, want open=%v pos=%d",
					tt.smap, tt.status, got, tt.wantOpen, tt.wantPos)
			}
		})
	}
}

func TestDecodeLight(t *testing.T) {
	tests := []struct {
		name           string
		status         uint32
		wantOn         bool
		wantR, wantG   uint8
		wantB          uint8
		wantBrightness uint8
	}{
		{"full white", 0xFFFFFF00, true, 0xFF, 0xFF, 0xFF, 0xFF},
		{"pure red", 0xFF000000, true, 0xFF, 0, 0, 0xFF},
		{"pure green", 0x00FF0000, true, 0, 0xFF, 0, 0xFF},
		{"pure blue", 0x0000FF00, true, 0, 0, 0xFF, 0xFF},
		{"mixed", 0x80400000, true, 0x80, 0x40, 0, 0x80},
		{"dim blue brightest", 0x10208000, true, 0x10, 0x20, 0x80, 0x80},
		{"off", 0, false, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeLight(tt.status)
			want := LightState{
				On: tt.wantOn, Red: tt.wantR, Green: tt.wantG, Blue: tt.wantB,
				Brightness: tt.wantBrightness,
			}
			if got != want {
				t.Errorf("DecodeLight(%#x) = %+v, want %+v", tt.status, got, want)
			}
		})
	}
}

func TestRGBToHex(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b int
		want    string
	}{
		{"white", 255, 255, 255, "#FFFFFF"},
		{"black", 0, 0, 0, "#000000"},
		{"orange", 255, 128, 0, "#FF8000"},
		{"clamps high", 300, 128, 0, "#FF8000"},
		{"clamps low", -20, 128, 256, "#0080FF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RGBToHex(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("RGBToHex(%d, %d, %d) = %q, want %q",
					tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestToIntensity(t *testing.T) {
	tests := []struct {
		name       string
		brightness int
		want       int
		wantErr    bool
	}{
		{"max", 255, 100, false},
		{"zero", 0, 0, false},
		{"half rounds up", 128, 50, false},
		{"quarter", 64, 25, false},
		{"over range", 256, 0, true},
		{"negative", -1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToIntensity(tt.brightness)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ToIntensity(%d) should return error", tt.brightness)
				}
				if !errors.Is(err, ErrBrightnessRange) {
					t.Errorf("ToIntensity(%d) error = %v, want ErrBrightnessRange", tt.brightness, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToIntensity(%d) error = %v", tt.brightness, err)
			}
			if got != tt.want {
				t.Errorf("ToIntensity(%d) = %d, want %d", tt.brightness, got, tt.want)
			}
		})
	}
}
