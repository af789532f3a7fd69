// Package payment generates PIX "copia e cola" payment codes. The engine
// treats the produced code as an opaque string to display; nothing here is
// parsed back.
package payment

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CodeGenerator produces an opaque payment-code string for a charge.
type CodeGenerator interface {
	Generate(amount float64, description string) (string, error)
}

const (
	// maxKeyLen is the DICT limit for a PIX key (e-mail keys are longest).
	maxKeyLen = 77
	// maxValueLen is the largest value a two-digit EMV length field can carry.
	maxValueLen = 99
)

// Pix builds static EMV BR-code strings for a fixed receiving key.
type Pix struct {
	Key           string
	RecipientName string
	City          string
	// NewTxID allows tests to pin the transaction ID.
	NewTxID func() string
}

// NewPix creates a generator for the given PIX key.
func NewPix(key, recipientName, city string) (*Pix, error) {
	if strings.TrimSpace(key) == "" || strings.TrimSpace(recipientName) == "" || strings.TrimSpace(city) == "" {
		return nil, fmt.Errorf("pix key, recipient name and city are required")
	}
	if len(key) > maxKeyLen {
		return nil, fmt.Errorf("pix key exceeds %d chars", maxKeyLen)
	}
	return &Pix{
		Key:           key,
		RecipientName: recipientName,
		City:          city,
		NewTxID:       defaultTxID,
	}, nil
}

func defaultTxID() string {
	// BR-code txids are limited to 25 alphanumeric chars.
	raw := "CV" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:25]
}

// Generate returns the BR code for the amount and description.
func (p *Pix) Generate(amount float64, description string) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("amount must be positive")
	}

	merchantAccount := tlv("00", "br.gov.bcb.pix") + tlv("01", p.Key)
	// EMV length fields are two digits, so the merchant-account block must
	// stay at 99 bytes or less. A key at the DICT maximum leaves no room
	// for the description, which is optional anyway.
	if room := maxValueLen - len(merchantAccount) - 4; room > 0 {
		if desc := truncate(description, min(40, room)); desc != "" {
			merchantAccount += tlv("02", desc)
		}
	}

	var b strings.Builder
	b.WriteString(tlv("00", "01"))                              // payload format
	b.WriteString(tlv("26", merchantAccount))                   // merchant account info
	b.WriteString(tlv("52", "0000"))                            // merchant category
	b.WriteString(tlv("53", "986"))                             // currency BRL
	b.WriteString(tlv("54", fmt.Sprintf("%.2f", amount)))       // amount
	b.WriteString(tlv("58", "BR"))                              // country
	b.WriteString(tlv("59", truncate(p.RecipientName, 25)))     // name
	b.WriteString(tlv("60", truncate(p.City, 15)))              // city
	b.WriteString(tlv("62", tlv("05", truncate(p.NewTxID(), 25)))) // txid
	b.WriteString("6304")                                       // CRC placeholder

	payload := b.String()
	return payload + fmt.Sprintf("%04X", crc16(payload)), nil
}

func tlv(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		return s[:max]
	}
	return s
}

// crc16 is CRC-16/CCITT-FALSE as required by the EMV QR spec.
func crc16(payload string) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range []byte(payload) {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// Disabled is the generator used when no PIX key is configured. Every call
// fails, which the conversation reports as payment being unavailable.
type Disabled struct{}

// Generate always fails.
func (Disabled) Generate(amount float64, description string) (string, error) {
	return "", fmt.Errorf("pix is not configured")
}
