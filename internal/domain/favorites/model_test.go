package favorites

import "testing"

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "team", want: KindTeam},
		{in: "player", want: KindPlayer},
		{in: " Team ", want: KindTeam},
		{in: "PLAYER", want: KindPlayer},
		{in: "stadium", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseKind(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSet_AddHasRemove(t *testing.T) {
	set := NewSet()

	set.Add(KindTeam, "t-ars")
	set.Add(KindPlayer, "p-9")

	if !set.Has(KindTeam, "t-ars") {
		t.Fatalf("expected team favorite")
	}
	if set.Has(KindTeam, "p-9") {
		t.Fatalf("kinds must not share an id space")
	}

	set.Remove(KindTeam, "t-ars")
	if set.Has(KindTeam, "t-ars") {
		t.Fatalf("expected team favorite removed")
	}
	if !set.Has(KindPlayer, "p-9") {
		t.Fatalf("player favorite must survive team removal")
	}
}

func TestSet_CloneIsIndependent(t *testing.T) {
	set := NewSet()
	set.Add(KindTeam, "t-ars")

	clone := set.Clone()
	clone.Add(KindTeam, "t-liv")
	clone.Remove(KindTeam, "t-ars")

	if !set.Has(KindTeam, "t-ars") {
		t.Fatalf("mutating the clone must not touch the original")
	}
	if set.Has(KindTeam, "t-liv") {
		t.Fatalf("clone additions must not leak into the original")
	}
}
