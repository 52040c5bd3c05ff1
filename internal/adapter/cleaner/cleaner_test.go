package cleaner

import (
	"strings"
	"testing"
)

func TestBaseClean_DropsNoise(t *testing.T) {
	in := strings.Join([]string{
		"The water cycle has three stages.",
		"",
		"42",
		"ab",
		"---",
		"============",
		"- _ -",
		"Evaporation moves water upward.",
	}, "\n")

	got := baseClean(in)
	want := "The water cycle has three stages.\nEvaporation moves water upward."
	if got != want {
		t.Errorf("baseClean:\ngot  %q\nwant %q", got, want)
	}
}

func TestBaseClean_KeepsSentencePunctuation(t *testing.T) {
	got := baseClean("First sentence\n.\nSecond sentence")
	if !strings.Contains(got, ".") {
		t.Errorf("bare period line should survive, got %q", got)
	}
}

func TestBaseClean_ArabicIndicPageNumbers(t *testing.T) {
	got := baseClean("النص الأول\n٤٥\nالنص الثاني")
	if strings.Contains(got, "٤٥") {
		t.Errorf("arabic-indic page number should be dropped, got %q", got)
	}
	if !strings.Contains(got, "النص الأول") || !strings.Contains(got, "النص الثاني") {
		t.Errorf("content lines lost: %q", got)
	}
}

func TestBaseClean_LongNumbersSurvive(t *testing.T) {
	got := baseClean("line one is here\n1984\nline two is here")
	if !strings.Contains(got, "1984") {
		t.Errorf("4-digit year should survive, got %q", got)
	}
}

func TestBaseClean_PreservesOrder(t *testing.T) {
	got := baseClean("alpha line here\nbeta line here\ngamma line here")
	want := "alpha line here\nbeta line here\ngamma line here"
	if got != want {
		t.Errorf("order changed:\ngot  %q\nwant %q", got, want)
	}
}

func TestBaseClean_Idempotent(t *testing.T) {
	in := "Some text here.\n12\n--- \nMore text follows."
	once := baseClean(in)
	twice := baseClean(once)
	if once != twice {
		t.Errorf("baseClean not idempotent:\nonce  %q\ntwice %q", once, twice)
	}
}

func TestBaseClean_EmptyAndAllNoise(t *testing.T) {
	if got := baseClean(""); got != "" {
		t.Errorf("empty input should stay empty, got %q", got)
	}
	if got := baseClean("\n\n7\n--\n"); got != "" {
		t.Errorf("all-noise input should become empty, got %q", got)
	}
}

func TestArabic_TableArtifacts(t *testing.T) {
	c := NewArabic()
	in := "الدرس الأول مفيد\n| خلية | خلية | خلية |\nالشرح يتبع هنا\n____________ جدول"
	got := c.Clean(in)
	if strings.Contains(got, "|") {
		t.Errorf("pipe table line should be dropped, got %q", got)
	}
	if strings.Contains(got, "____") {
		t.Errorf("underscore table line should be dropped, got %q", got)
	}
	if !strings.Contains(got, "الدرس الأول مفيد") {
		t.Errorf("content line lost: %q", got)
	}
}

func TestArabic_IsolatedLatinLetters(t *testing.T) {
	c := NewArabic()
	got := c.Clean("النقطة a تمثل البداية")
	if strings.Contains(got, " a ") {
		t.Errorf("isolated latin letter should be removed, got %q", got)
	}
}

func TestArabic_PunctuationHugsWord(t *testing.T) {
	c := NewArabic()
	got := c.Clean("ما هو التمثيل الضوئي ؟")
	if !strings.Contains(got, "الضوئي؟") {
		t.Errorf("whitespace before ؟ should be removed, got %q", got)
	}
}

func TestMathPhysics_OperatorPadding(t *testing.T) {
	c := NewMathPhysics()
	got := c.Clean("The equation is 2+2=4 for sure")
	if !strings.Contains(got, "2 + 2 = 4") {
		t.Errorf("operators should be padded, got %q", got)
	}
}

func TestMathPhysics_FigureCaptions(t *testing.T) {
	c := NewMathPhysics()
	got := c.Clean("Fig. 3 shows the circuit diagram\nOhm's law relates voltage and current.")
	if strings.Contains(got, "circuit diagram") {
		t.Errorf("figure caption should be dropped, got %q", got)
	}
	if !strings.Contains(got, "voltage and current") {
		t.Errorf("content line lost: %q", got)
	}
}

func TestMathPhysics_KeepsNewlines(t *testing.T) {
	c := NewMathPhysics()
	got := c.Clean("First   line \t here.\nSecond line here.")
	if strings.Count(got, "\n") == 0 {
		t.Errorf("newlines must survive whitespace collapse, got %q", got)
	}
	if strings.Contains(got, "  ") {
		t.Errorf("space runs should be collapsed, got %q", got)
	}
}

func TestScience_FigureCaptionVariants(t *testing.T) {
	c := NewScience()
	in := strings.Join([]string{
		"The cell membrane controls transport.",
		"figure (12) the plant cell",
		"Shape 4 cross section",
		"Mitochondria produce energy.",
	}, "\n")
	got := c.Clean(in)
	if strings.Contains(got, "plant cell") || strings.Contains(got, "cross section") {
		t.Errorf("figure captions should be dropped, got %q", got)
	}
	if !strings.Contains(got, "cell membrane") || !strings.Contains(got, "Mitochondria") {
		t.Errorf("content lines lost: %q", got)
	}
}

func TestScience_Bullets(t *testing.T) {
	c := NewScience()
	got := c.Clean("• osmosis moves water\n● diffusion moves solutes")
	if strings.Contains(got, "•") || strings.Contains(got, "●") {
		t.Errorf("unicode bullets should be normalized, got %q", got)
	}
	if strings.Count(got, "- ") != 2 {
		t.Errorf("expected two list markers, got %q", got)
	}
}

func TestEnglish_OptionMarkers(t *testing.T) {
	c := NewEnglish()
	got := c.Clean("Choose the synonym of rapid: A. slow B. quick C. heavy D. bright")
	for _, marker := range []string{"A. ", "B. ", "C. ", "D. "} {
		if !strings.Contains(got, "\n"+marker) {
			t.Errorf("marker %q should start its own line, got %q", marker, got)
		}
	}
}

func TestRegistry_Dispatch(t *testing.T) {
	r := NewRegistry()

	if r.ForSubject("math") != r.ForSubject("physics") {
		t.Error("math and physics should share a cleaner")
	}
	if r.ForSubject("chemistry") != r.ForSubject("biology") {
		t.Error("chemistry and biology should share a cleaner")
	}
	if _, ok := r.ForSubject("arabic").(*Arabic); !ok {
		t.Error("arabic should get the Arabic cleaner")
	}
	if _, ok := r.ForSubject("geology").(*English); !ok {
		t.Error("unknown subject should fall back to English cleaner")
	}
	if _, ok := r.ForSubject("ARABIC").(*Arabic); !ok {
		t.Error("subject lookup should be case-insensitive")
	}
}
