package cpf

import "testing"

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		cpf  string
		want bool
	}{
		{"valid plain", "52998224725", true},
		{"valid formatted", "529.982.247-25", true},
		{"valid second", "111.444.777-35", true},
		{"wrong first check digit", "52998224735", false},
		{"wrong second check digit", "52998224724", false},
		{"too short", "5299822472", false},
		{"too long", "529982247251", false},
		{"repeated digits", "111.111.111-11", false},
		{"empty", "", false},
		{"letters only", "abcdefghijk", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.cpf); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.cpf, got, tt.want)
			}
		})
	}
}

func TestStrip(t *testing.T) {
	if got := Strip("529.982.247-25"); got != "52998224725" {
		t.Errorf("Strip() = %q, want 52998224725", got)
	}
}
