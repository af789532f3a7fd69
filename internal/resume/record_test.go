package resume

import "testing"

func TestAddExperiencePrependsAndSetsHeadline(t *testing.T) {
	var r Record
	r.AddExperience(Experience{Cargo: "Caixa", Empresa: "Mercado A"})
	r.AddExperience(Experience{Cargo: "Gerente", Empresa: "Mercado B"})

	if len(r.Experiencias) != 2 {
		t.Fatalf("len = %d, want 2", len(r.Experiencias))
	}
	if r.Experiencias[0].Cargo != "Gerente" {
		t.Fatalf("first entry = %q, want most recent first", r.Experiencias[0].Cargo)
	}
	// The headline role comes from the first entry and is not overwritten.
	if got := r.Cargo.Or(""); got != "Caixa" {
		t.Fatalf("headline = %q, want %q", got, "Caixa")
	}
}

func TestFirstName(t *testing.T) {
	var r Record
	if got := r.FirstName(); got != "" {
		t.Fatalf("empty record first name = %q", got)
	}
	r.Nome = Provide("  Maria Clara Souza ")
	if got := r.FirstName(); got != "Maria" {
		t.Fatalf("first name = %q, want Maria", got)
	}
}

func TestScalarKeysRoundTrip(t *testing.T) {
	var r Record
	for _, key := range []string{KeyNome, KeyCidade, KeyTelefone, KeyEmail, KeyResumo, KeyFormacao, KeyCargo} {
		if !r.SetScalar(key, Provide("valor")) {
			t.Fatalf("SetScalar(%q) rejected a known key", key)
		}
		f, ok := r.Scalar(key)
		if !ok || f.Or("") != "valor" {
			t.Fatalf("Scalar(%q) = %+v", key, f)
		}
	}
	if r.SetScalar("desconhecido", Provide("x")) {
		t.Fatal("unknown key must be rejected")
	}
}

func TestAppendAndSetList(t *testing.T) {
	var r Record
	r.AppendList(KeyHabilidades, "Excel, Word")
	r.AppendList(KeyHabilidades, " Inglês ")
	if len(r.Habilidades) != 3 || r.Habilidades[2] != "Inglês" {
		t.Fatalf("habilidades = %v", r.Habilidades)
	}

	r.SetList(KeyHabilidades, "Pacote Office")
	if len(r.Habilidades) != 1 || r.Habilidades[0] != "Pacote Office" {
		t.Fatalf("corrected habilidades = %v, want replaced list", r.Habilidades)
	}
}

func TestFieldOr(t *testing.T) {
	if got := Skipped().Or("—"); got != "—" {
		t.Fatalf("skipped Or = %q", got)
	}
	if got := Provide("  x  ").Or("—"); got != "x" {
		t.Fatalf("provided Or = %q", got)
	}
}
