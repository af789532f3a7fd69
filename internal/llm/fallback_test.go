package llm

import "testing"

func TestNormalizeNameStripsIntroductions(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"meu nome é joão pereira", "joão pereira"},
		{"Meu nome e Ana", "Ana"},
		{"me chamo Bruna Costa", "Bruna Costa"},
		{"sou o Carlos", "Carlos"},
		{"  Paula Dias  ", "Paula Dias"},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"ana@example.com", "a.b+c@sub.dominio.com.br"}
	for _, in := range valid {
		if !ValidEmail(in) {
			t.Errorf("ValidEmail(%q) = false, want true", in)
		}
	}
	invalid := []string{"", "ana", "ana@", "@example.com", "ana at example.com"}
	for _, in := range invalid {
		if ValidEmail(in) {
			t.Errorf("ValidEmail(%q) = true, want false", in)
		}
	}
}
