package bitset

import "testing"

func TestEncodeDecode_RoundTrip(t *testing.T) {
	in := []Window{
		{Start: 9 * 60, End: 12 * 60},
		{Start: 13 * 60, End: 17 * 60},
	}
	bm, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := Decode(bm)
	if len(out) != 2 {
		t.Fatalf("expected 2 windows, got %d: %v", len(out), out)
	}
	if out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("round trip mismatch: %v", out)
	}
}

func TestEncode_OverlappingInputsUnion(t *testing.T) {
	overlapping, err := Encode([]Window{
		{Start: 9 * 60, End: 11 * 60},
		{Start: 10 * 60, End: 12 * 60},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	merged, err := Encode([]Window{{Start: 9 * 60, End: 12 * 60}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if overlapping != merged {
		t.Fatalf("overlapping windows should encode to their union")
	}
}

func TestDecode_TouchingWindowsMerge(t *testing.T) {
	bm, err := Encode([]Window{
		{Start: 9 * 60, End: 11 * 60},
		{Start: 11 * 60, End: 13 * 60},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := Decode(bm)
	if len(out) != 1 {
		t.Fatalf("expected 1 merged window, got %v", out)
	}
	if out[0].Start != 9*60 || out[0].End != 13*60 {
		t.Fatalf("expected 09:00-13:00, got %s-%s", out[0].StartString(), out[0].EndString())
	}
}

func TestDecode_DayEndSentinel(t *testing.T) {
	bm, err := Encode([]Window{{Start: 22 * 60, End: MinutesPerDay}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := Decode(bm)
	if len(out) != 1 {
		t.Fatalf("expected 1 window, got %v", out)
	}
	if out[0].EndString() != "24:00:00" {
		t.Fatalf("expected 24:00:00 sentinel, got %s", out[0].EndString())
	}
}

func TestEncode_RejectsMisaligned(t *testing.T) {
	if _, err := Encode([]Window{{Start: 9*60 + 10, End: 10 * 60}}); err == nil {
		t.Fatal("expected error for misaligned start")
	}
	if _, err := Encode([]Window{{Start: 9 * 60, End: 10*60 + 15}}); err == nil {
		t.Fatal("expected error for misaligned end")
	}
}

func TestEncode_RejectsEmptyOrReversed(t *testing.T) {
	if _, err := Encode([]Window{{Start: 10 * 60, End: 10 * 60}}); err == nil {
		t.Fatal("expected error for empty window")
	}
	if _, err := Encode([]Window{{Start: 12 * 60, End: 9 * 60}}); err == nil {
		t.Fatal("expected error for reversed window")
	}
}

func TestDecode_ZeroAndFull(t *testing.T) {
	if out := Decode(Bitmap{}); out != nil {
		t.Fatalf("all-zero bitmap should decode to nil, got %v", out)
	}

	full, err := Encode([]Window{{Start: 0, End: MinutesPerDay}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := Decode(full)
	if len(out) != 1 || out[0].Start != 0 || out[0].End != MinutesPerDay {
		t.Fatalf("full bitmap should decode to one whole-day window, got %v", out)
	}
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:30:00")
	if err != nil || m != 9*60+30 {
		t.Fatalf("expected 570, got %d (err %v)", m, err)
	}
	m, err = ParseClock("24:00:00")
	if err != nil || m != MinutesPerDay {
		t.Fatalf("expected sentinel 1440, got %d (err %v)", m, err)
	}
	if _, err := ParseClock("09:30:30"); err == nil {
		t.Fatal("expected error for non-zero seconds")
	}
	if _, err := ParseClock("25:00:00"); err == nil {
		t.Fatal("expected error for hour out of range")
	}
	if _, err := ParseClock("0930"); err == nil {
		t.Fatal("expected error for malformed time")
	}
}

func TestBitmap_IsZero(t *testing.T) {
	var bm Bitmap
	if !bm.IsZero() {
		t.Fatal("zero bitmap should report IsZero")
	}
	bm[0] = 1
	if bm.IsZero() {
		t.Fatal("non-zero bitmap should not report IsZero")
	}
}
