package fountain

import "testing"

func TestKeyAction(t *testing.T) {
	tests := []struct {
		key  string
		want Kind
		ok   bool
	}{
		{"a", MoveLeft, true},
		{"A", MoveLeft, true},
		{"d", MoveRight, true},
		{"w", MoveForward, true},
		{"s", MoveBack, true},
		{"u", PowerUp, true},
		{"j", PowerDown, true},
		{"i", SpreadUp, true},
		{"k", SpreadDown, true},
		{"+", ZoomOut, true},
		{"-", ZoomIn, true},
		{"ArrowLeft", OrbitLeft, true},
		{"Escape", Quit, true},
		{"q", Quit, true},
		{"x", ActionNone, false},
		{"", ActionNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := KeyAction(tt.key)
			if ok != tt.ok || got != tt.want {
				t.Errorf("KeyAction(%q) = %v, %v; want %v, %v", tt.key, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for k, name := range kindNames {
		if k == ActionNone {
			continue
		}
		got, ok := ParseKind(name)
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", name, got, ok)
		}
	}
	if _, ok := ParseKind("none"); ok {
		t.Error("Expected none to be rejected")
	}
	if got, ok := ParseKind(" Power_Up "); !ok || got != PowerUp {
		t.Errorf("Expected case-insensitive match, got %v", got)
	}
}

func TestCameraKinds(t *testing.T) {
	if !OrbitLeft.Camera() || !ZoomIn.Camera() {
		t.Error("Expected orbit and zoom to be camera actions")
	}
	if MoveLeft.Camera() || Quit.Camera() {
		t.Error("Expected emitter moves and quit not to be camera actions")
	}
}
