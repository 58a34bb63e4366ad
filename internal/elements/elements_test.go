package elements

import (
	"reflect"
	"testing"
)

func TestCatalog_Complete(t *testing.T) {
	if Count() != int(numElements) {
		t.Fatalf("Count() = %d, want %d", Count(), numElements)
	}
	names := make(map[string]ID, numElements)
	for id := ID(0); id < numElements; id++ {
		e := Get(id)
		if e.Name == "" {
			t.Errorf("element %d has no definition", id)
			continue
		}
		if prev, dup := names[e.Name]; dup {
			t.Errorf("%s names both %d and %d", e.Name, prev, id)
		}
		names[e.Name] = id
		if e.Stressed < 0 || e.Plain < 0 {
			t.Errorf("%s has negative duration", e.Name)
		}
	}
}

func TestCatalog_FixedFromProportion(t *testing.T) {
	for id := ID(0); id < numElements; id++ {
		e := Get(id)
		for p := Param(0); p < NParams; p++ {
			tg := e.P[p]
			want := tg.Steady * (100 - tg.Prop) / 100
			if tg.Fixed != want {
				t.Errorf("%s.%s fixed = %v, want %v", e.Name, p, tg.Fixed, want)
			}
		}
	}
}

func TestCatalog_NasalZero(t *testing.T) {
	tests := []struct {
		id   ID
		want float64
	}{
		{M, nasalZero},
		{NG, nasalZero},
		{AA, oralZero},
		{S, oralZero},
		{END, oralZero},
	}
	for _, tt := range tests {
		if got := Get(tt.id).P[FN].Steady; got != tt.want {
			t.Errorf("%s fn = %v, want %v", Get(tt.id).Name, got, tt.want)
		}
	}
}

func TestCatalog_RankOrder(t *testing.T) {
	order := []ID{END, Q, PY, PZ, CH, P, S, V, M, L, H, IY}
	for i := 1; i < len(order); i++ {
		a, b := Get(order[i-1]), Get(order[i])
		if a.Rank < b.Rank {
			t.Errorf("%s rank %d below %s rank %d", a.Name, a.Rank, b.Name, b.Rank)
		}
	}
}

func TestGet_UnknownIsEnd(t *testing.T) {
	if got := Get(ID(250)); got.Name != "END" {
		t.Errorf("Get(250) = %s, want END", got.Name)
	}
}

func TestPhonemes_ReferToCatalog(t *testing.T) {
	for sym, ids := range phonemes {
		if len(ids) == 0 {
			t.Errorf("%q maps to no elements", sym)
		}
		for _, id := range ids {
			if id >= numElements {
				t.Errorf("%q maps to unknown element %d", sym, id)
			}
		}
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		s    string
		i    int
		want string
	}{
		{"tS", 0, "tS"},
		{"ts", 0, "t"},
		{"I@", 0, "I@"},
		{"Ik", 0, "I"},
		{"k{t", 1, "{"},
		{"3:", 0, "3:"},
		{"3", 0, ""},
		{"x", 0, ""},
		{"k", 1, ""},
	}
	for _, tt := range tests {
		if got := Next(tt.s, tt.i); got != tt.want {
			t.Errorf("Next(%q, %d) = %q, want %q", tt.s, tt.i, got, tt.want)
		}
	}
}

func TestIsVowel(t *testing.T) {
	for _, s := range []string{"i:", "{", "@", "eI", "@U", "U@"} {
		if !IsVowel(s) {
			t.Errorf("IsVowel(%q) = false", s)
		}
	}
	for _, s := range []string{"k", "tS", "_", ".", "x", ""} {
		if IsVowel(s) {
			t.Errorf("IsVowel(%q) = true", s)
		}
	}
}

func ids(in []Instance) []ID {
	out := make([]ID, len(in))
	for i, x := range in {
		out[i] = x.ID
	}
	return out
}

func TestMap(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []ID
		skipped int
	}{
		{"cat", "k'{t", []ID{K, KY, KZ, AA, T, TY, TZ}, 0},
		{"affricate", "tSIp", []ID{T, CH, CI, I, P, PY, PZ}, 0},
		{"diphthong", "eI", []ID{AI, IX}, 0},
		{"centring diphthong", "I@", []ID{IA, A}, 0},
		{"pauses", "a_.", []ID{Q, END}, 1},
		{"word gap", "m m", []ID{M, M}, 0},
		{"empty", "", []ID{}, 0},
		{"garbage", "xyq", []ID{}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stats := Map(tt.in)
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Errorf("Map(%q) = %v, want %v", tt.in, ids(got), tt.want)
			}
			if stats.Skipped != tt.skipped {
				t.Errorf("Map(%q) skipped %d, want %d", tt.in, stats.Skipped, tt.skipped)
			}
		})
	}
}

func TestMap_Stress(t *testing.T) {
	got, _ := Map("k'{t{")
	if got[3].Stress != 3 {
		t.Errorf("stressed vowel stress = %d, want 3", got[3].Stress)
	}
	if got[3].Duration != Get(AA).Stressed {
		t.Errorf("stressed duration = %d, want %d", got[3].Duration, Get(AA).Stressed)
	}
	if got[0].Stress != 0 {
		t.Errorf("consonant carries stress %d", got[0].Stress)
	}
	last := got[len(got)-1]
	if last.Stress != 0 || last.Duration != Get(AA).Plain {
		t.Errorf("stress not cleared: %+v", last)
	}
}

func TestMap_StressCarriesOverConsonants(t *testing.T) {
	got, _ := Map(",steI")
	for _, in := range got {
		e := Get(in.ID)
		switch {
		case e.Is(Vowel) && in.Stress != 2:
			t.Errorf("%s stress = %d, want 2", e.Name, in.Stress)
		case !e.Is(Vowel) && in.Stress != 0:
			t.Errorf("%s stress = %d, want 0", e.Name, in.Stress)
		}
	}
}

func TestMap_DurationsNonNegative(t *testing.T) {
	got, _ := Map("h@'l@U w'3:ld . ")
	for _, in := range got {
		if in.Duration < 0 {
			t.Errorf("%s has duration %d", Get(in.ID).Name, in.Duration)
		}
	}
}
