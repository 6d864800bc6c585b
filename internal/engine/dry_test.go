package engine

import "testing"

func TestDrySession(t *testing.T) {
	d := NewDry("B1", "B2")

	if err := d.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := d.Init(); err == nil {
		t.Error("double init accepted")
	}

	buses, err := d.ComponentNames("BUS")
	if err != nil {
		t.Fatal(err)
	}
	if len(buses) != 2 {
		t.Fatalf("expected 2 buses, got %d", len(buses))
	}

	volts, err := d.BusVoltages(buses)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range volts {
		if v != 1.0 {
			t.Errorf("bus %d: expected 1.0 pu, got %v", i, v)
		}
	}

	if err := d.AdvanceTo(0.5); err != nil {
		t.Errorf("advance failed: %v", err)
	}
	if err := d.AdvanceTo(0.1); err == nil {
		t.Error("backwards advance accepted")
	} else if d.LastError() == "" {
		t.Error("last-error text not recorded")
	}

	if err := d.End(); err != nil {
		t.Errorf("end failed: %v", err)
	}
	if err := d.AdvanceTo(1.0); err == nil {
		t.Error("advance after end accepted")
	}
}

func TestFactoryProducesFreshSessions(t *testing.T) {
	factory := Factory("B1")

	a := factory()
	if err := a.Init(); err != nil {
		t.Fatal(err)
	}

	b := factory()
	if err := b.Init(); err != nil {
		t.Errorf("second session shares state with the first: %v", err)
	}
}
