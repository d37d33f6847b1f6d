package core

import (
	"testing"

	"github.com/battcore/battcore/pkg/types"
)

func snap(src types.ChargingSource, level, fullLevel int, enabled bool) types.Snapshot {
	s := types.DefaultSnapshot()
	s.ChargingSource = src
	s.LevelPercent = level
	s.FullLevelPercent = fullLevel
	s.ChargingEnabled = enabled
	return s
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		snapshot  types.Snapshot
		latch     bool
		want      types.Status
		wantLatch bool
	}{
		{"on battery clears latch", snap(types.SourceNone, 100, 100, true), true, types.StatusNotCharging, false},
		{"ac at 100 latches", snap(types.SourceAC, 100, 100, true), false, types.StatusFull, true},
		{"latched at 95 stays full", snap(types.SourceAC, 95, 100, true), true, types.StatusFull, true},
		{"unlatched at 95 charging", snap(types.SourceAC, 95, 100, true), false, types.StatusCharging, false},
		{"latch ignored below full level 100", snap(types.SourceAC, 95, 90, true), true, types.StatusCharging, false},
		{"charging disabled on external power", snap(types.SourceUSB, 80, 100, false), false, types.StatusDischarging, false},
		{"wireless full", snap(types.SourceWireless, 100, 100, false), false, types.StatusFull, true},
		{"9v ac charging", snap(types.SourceAC9V, 42, 100, true), false, types.StatusCharging, false},
		{"unknown source keeps latch", snap(types.SourceUnknown, 50, 100, true), true, types.StatusUnknown, true},
		{"unknown source keeps cleared latch", snap(types.SourceUnknown, 100, 100, true), false, types.StatusUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, latch := Resolve(tt.snapshot, tt.latch)
			if got != tt.want || latch != tt.wantLatch {
				t.Fatalf("Resolve() = (%s, %t), want (%s, %t)", got, latch, tt.want, tt.wantLatch)
			}
		})
	}
}

func TestResolveUnknownBatteryOverridesSource(t *testing.T) {
	sources := []types.ChargingSource{
		types.SourceNone, types.SourceUSB, types.SourceAC, types.SourceAC9V, types.SourceWireless,
	}
	for _, src := range sources {
		s := snap(src, 100, 100, true)
		s.BatteryID = types.UnknownBatteryID
		for _, latch := range []bool{false, true} {
			got, gotLatch := Resolve(s, latch)
			if got != types.StatusUnknown {
				t.Fatalf("Resolve(source=%s, id=255) = %s, want unknown", src, got)
			}
			if gotLatch != latch {
				t.Fatalf("Resolve(source=%s, id=255) changed latch %t -> %t", src, latch, gotLatch)
			}
		}
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	s := snap(types.SourceAC, 97, 100, true)
	first, firstLatch := Resolve(s, true)
	for i := 0; i < 100; i++ {
		got, latch := Resolve(s, true)
		if got != first || latch != firstLatch {
			t.Fatalf("Resolve() run %d = (%s, %t), first run was (%s, %t)", i, got, latch, first, firstLatch)
		}
	}
}

func TestResolveHealth(t *testing.T) {
	alwaysFault := func(int32) bool { return true }
	neverFault := func(int32) bool { return false }

	tests := []struct {
		name  string
		temp  int32
		fault func(int32) bool
		want  types.Health
	}{
		{"normal", 285, nil, types.HealthGood},
		{"at upper threshold", 480, nil, types.HealthOverheat},
		{"just below upper threshold", 479, nil, types.HealthGood},
		{"zero", 0, nil, types.HealthOverheat},
		{"below zero", -50, nil, types.HealthOverheat},
		{"predicate overrides hot", 600, neverFault, types.HealthGood},
		{"predicate overrides normal", 285, alwaysFault, types.HealthOverheat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveHealth(tt.temp, tt.fault); got != tt.want {
				t.Fatalf("ResolveHealth(%d) = %s, want %s", tt.temp, got, tt.want)
			}
		})
	}
}
