package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRecursiveSplitter_ShortTextSingleChunk(t *testing.T) {
	s := NewRecursiveSplitter(600, 200)

	pieces := s.Split("A single short paragraph that fits comfortably.")
	if len(pieces) != 1 {
		t.Fatalf("expected 1 piece, got %d: %v", len(pieces), pieces)
	}
	if pieces[0] != "A single short paragraph that fits comfortably." {
		t.Errorf("unexpected piece %q", pieces[0])
	}
}

func TestRecursiveSplitter_EmptyText(t *testing.T) {
	s := NewRecursiveSplitter(600, 200)
	if pieces := s.Split(""); len(pieces) != 0 {
		t.Errorf("expected no pieces for empty text, got %v", pieces)
	}
}

func TestRecursiveSplitter_PrefersParagraphBoundaries(t *testing.T) {
	s := NewRecursiveSplitter(100, 0)

	para1 := strings.Repeat("aa ", 25) + "end."    // ~78 runes
	para2 := strings.Repeat("bb ", 25) + "stop."   // ~80 runes
	pieces := s.Split(para1 + "\n\n" + para2)

	if len(pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d: %q", len(pieces), pieces)
	}
	if !strings.HasSuffix(pieces[0], "end.") {
		t.Errorf("first piece should end at the paragraph break, got %q", pieces[0])
	}
	if !strings.HasPrefix(pieces[1], "bb") {
		t.Errorf("second piece should start the next paragraph, got %q", pieces[1])
	}
}

func TestRecursiveSplitter_SizeBound(t *testing.T) {
	s := NewRecursiveSplitter(600, 200)

	var sb strings.Builder
	for i := 0; i < 80; i++ {
		sb.WriteString("The mitochondria is the powerhouse of the cell. ")
	}
	pieces := s.Split(sb.String())

	if len(pieces) < 2 {
		t.Fatalf("expected multiple pieces, got %d", len(pieces))
	}
	for i, p := range pieces {
		if n := utf8.RuneCountInString(p); n > 600 {
			t.Errorf("piece %d exceeds size budget: %d runes", i, n)
		}
	}
}

func TestRecursiveSplitter_OverlapSeedsNextChunk(t *testing.T) {
	s := NewRecursiveSplitter(200, 80)

	var sentences []string
	for i := 0; i < 12; i++ {
		sentences = append(sentences, strings.Repeat("word ", 8)+"done.")
	}
	pieces := s.Split(strings.Join(sentences, " "))

	if len(pieces) < 2 {
		t.Fatalf("expected multiple pieces, got %d", len(pieces))
	}
	for i := 1; i < len(pieces); i++ {
		prev := pieces[i-1]
		tail := prev[len(prev)-20:]
		if !strings.Contains(pieces[i], strings.TrimSpace(tail)) {
			t.Errorf("piece %d does not overlap with predecessor tail %q:\n%q", i, tail, pieces[i])
		}
	}
}

func TestRecursiveSplitter_HardSplitFallback(t *testing.T) {
	s := NewRecursiveSplitter(600, 200)

	// No separator of any kind: one unbroken 1500-rune token.
	var sb strings.Builder
	for i := 0; i < 1500; i++ {
		sb.WriteByte(byte('0' + i%10))
	}
	text := sb.String()
	pieces := s.Split(text)

	if len(pieces) != 4 {
		t.Fatalf("expected 4 pieces for 1500 runes at 600/200, got %d", len(pieces))
	}
	for i, p := range pieces {
		if n := utf8.RuneCountInString(p); n > 600 {
			t.Errorf("piece %d exceeds size budget: %d runes", i, n)
		}
	}
	// Exact character overlap: each piece repeats the last 200 runes
	// of its predecessor.
	for i := 1; i < len(pieces); i++ {
		prev := pieces[i-1]
		overlap := prev[len(prev)-200:]
		if !strings.HasPrefix(pieces[i], overlap) {
			t.Errorf("piece %d should start with predecessor's 200-rune tail", i)
		}
	}
}

func TestRecursiveSplitter_ArabicRuneCounting(t *testing.T) {
	s := NewRecursiveSplitter(100, 20)

	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("الدرس مفيد ")
	}
	pieces := s.Split(sb.String())

	packed := false
	for i, p := range pieces {
		n := utf8.RuneCountInString(p)
		if n > 100 {
			t.Errorf("piece %d exceeds rune budget: %d", i, n)
		}
		if n > 60 {
			packed = true
		}
	}
	// Arabic is two bytes per rune: if sizes were measured in bytes,
	// no piece could come near the rune budget.
	if !packed {
		t.Error("pieces are undersized, size is being measured in bytes")
	}
}

func TestSplitKeepSeparator(t *testing.T) {
	splits := splitKeepSeparator("a\n\nb\n\nc", "\n\n")
	want := []string{"a", "\n\nb", "\n\nc"}
	if len(splits) != len(want) {
		t.Fatalf("expected %d splits, got %d: %q", len(want), len(splits), splits)
	}
	for i := range want {
		if splits[i] != want[i] {
			t.Errorf("split %d = %q, want %q", i, splits[i], want[i])
		}
	}
	// Rejoining reproduces the input.
	if joined := strings.Join(splits, ""); joined != "a\n\nb\n\nc" {
		t.Errorf("fragments must reassemble losslessly, got %q", joined)
	}
}

func TestSplitKeepSeparator_LeadingAndTrailing(t *testing.T) {
	splits := splitKeepSeparator("\n\nabc\n\n", "\n\n")
	want := []string{"\n\nabc", "\n\n"}
	if len(splits) != len(want) {
		t.Fatalf("expected %d splits, got %d: %q", len(want), len(splits), splits)
	}
	for i := range want {
		if splits[i] != want[i] {
			t.Errorf("split %d = %q, want %q", i, splits[i], want[i])
		}
	}
}
