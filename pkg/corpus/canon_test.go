package corpus

import "testing"

func TestCanonHas66Books(t *testing.T) {
	if len(Canon) != 66 {
		t.Fatalf("expected 66 canon entries, got %d", len(Canon))
	}
}

func TestCanonOrderIsGenesisToRevelation(t *testing.T) {
	if Canon["GEN"].Order != 1 {
		t.Errorf("GEN order = %d, want 1", Canon["GEN"].Order)
	}
	if Canon["REV"].Order != 66 {
		t.Errorf("REV order = %d, want 66", Canon["REV"].Order)
	}
	if Canon["MAT"].Order != 40 {
		t.Errorf("MAT (first NT book) order = %d, want 40", Canon["MAT"].Order)
	}
}

func TestCanonOrdersAreUniqueAndContiguous(t *testing.T) {
	seen := make(map[int]string, len(Canon))
	for code, entry := range Canon {
		if prev, ok := seen[entry.Order]; ok {
			t.Fatalf("order %d used by both %s and %s", entry.Order, prev, code)
		}
		seen[entry.Order] = code
	}
	for i := 1; i <= 66; i++ {
		if _, ok := seen[i]; !ok {
			t.Errorf("no book has order %d", i)
		}
	}
}

func TestCanonCommonNameDefaultsToName(t *testing.T) {
	if Canon["GEN"].CommonName != "Genesis" {
		t.Errorf("GEN common name = %q, want default of Name", Canon["GEN"].CommonName)
	}
}

func TestCanonCommonNameOverrides(t *testing.T) {
	if Canon["SNG"].CommonName != "Song of Songs" {
		t.Errorf("SNG common name = %q, want \"Song of Songs\"", Canon["SNG"].CommonName)
	}
	if Canon["REV"].CommonName != "Revelation of John" {
		t.Errorf("REV common name = %q, want \"Revelation of John\"", Canon["REV"].CommonName)
	}
}

func TestCanonExcludesApocrypha(t *testing.T) {
	for _, code := range []string{"TOB", "JDT", "WIS", "SIR", "1MA", "2MA"} {
		if _, ok := Canon[code]; ok {
			t.Errorf("expected apocryphal book %s to be excluded from the 66-book canon", code)
		}
	}
}
