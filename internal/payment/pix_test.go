package payment

import (
	"strconv"
	"strings"
	"testing"
)

func newTestPix(t *testing.T) *Pix {
	t.Helper()
	p, err := NewPix("chave@example.com", "Cadu Curriculos", "Recife")
	if err != nil {
		t.Fatalf("NewPix: %v", err)
	}
	p.NewTxID = func() string { return "CVTESTE1234567890" }
	return p
}

func TestGenerateIsStableForFixedTxID(t *testing.T) {
	p := newTestPix(t)
	a, err := p.Generate(5.99, "Curriculo basico")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := p.Generate(5.99, "Curriculo basico")
	if err != nil {
		t.Fatalf("generate again: %v", err)
	}
	if a != b {
		t.Fatalf("payload not stable:\n%s\n%s", a, b)
	}
}

func TestGeneratePayloadShape(t *testing.T) {
	p := newTestPix(t)
	code, err := p.Generate(10.99, "Curriculo premium")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !strings.HasPrefix(code, "000201") {
		t.Fatalf("payload must start with the format indicator, got %q", code[:10])
	}
	for _, want := range []string{"br.gov.bcb.pix", "chave@example.com", "10.99", "5303986", "5802BR", "Cadu Curriculos", "Recife", "CVTESTE1234567890"} {
		if !strings.Contains(code, want) {
			t.Fatalf("payload missing %q:\n%s", want, code)
		}
	}
	// CRC field is last: id 63, length 04, then 4 hex chars.
	idx := strings.LastIndex(code, "6304")
	if idx < 0 || len(code)-idx != 8 {
		t.Fatalf("payload must end with the 4-char CRC, got %q", code)
	}
}

func TestGenerateLongKeyKeepsLengthFieldsTwoDigits(t *testing.T) {
	// 77 chars, the DICT maximum for an e-mail key. With a description on
	// top of it, the merchant-account block would overflow a two-digit
	// length field unless the description is dropped.
	key := strings.Repeat("k", 65) + "@example.com"
	p, err := NewPix(key, "Cadu Curriculos", "Recife")
	if err != nil {
		t.Fatalf("NewPix: %v", err)
	}
	p.NewTxID = func() string { return "CVTESTE1234567890" }

	code, err := p.Generate(29.90, "Curriculo ilimitado assinatura mensal")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Walk the top-level TLV stream; a malformed length field would
	// misalign the walk before the end of the payload.
	for i := 0; i < len(code); {
		if len(code)-i < 4 {
			t.Fatalf("truncated TLV header at offset %d:\n%s", i, code)
		}
		n, err := strconv.Atoi(code[i+2 : i+4])
		if err != nil {
			t.Fatalf("non-numeric length at offset %d: %q", i, code[i:i+4])
		}
		if i+4+n > len(code) {
			t.Fatalf("field %s declares %d bytes past end of payload", code[i:i+2], n)
		}
		i += 4 + n
	}
}

func TestNewPixRejectsOverlongKey(t *testing.T) {
	if _, err := NewPix(strings.Repeat("k", 78), "name", "city"); err == nil {
		t.Fatal("key over 77 chars must be rejected")
	}
}

func TestGenerateCRCMatchesKnownVector(t *testing.T) {
	// CRC-16/CCITT-FALSE of "123456789" is the classic check value 0x29B1.
	if got := crc16("123456789"); got != 0x29B1 {
		t.Fatalf("crc16 = %04X, want 29B1", got)
	}
}

func TestGenerateRejectsNonPositiveAmount(t *testing.T) {
	p := newTestPix(t)
	if _, err := p.Generate(0, "x"); err == nil {
		t.Fatal("zero amount must be rejected")
	}
	if _, err := p.Generate(-1, "x"); err == nil {
		t.Fatal("negative amount must be rejected")
	}
}

func TestNewPixRequiresAllFields(t *testing.T) {
	if _, err := NewPix("", "name", "city"); err == nil {
		t.Fatal("missing key must be rejected")
	}
	if _, err := NewPix("key", "", "city"); err == nil {
		t.Fatal("missing recipient must be rejected")
	}
}

func TestDisabledGeneratorAlwaysFails(t *testing.T) {
	if _, err := (Disabled{}).Generate(5.99, "x"); err == nil {
		t.Fatal("disabled generator must fail")
	}
}
