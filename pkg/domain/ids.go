// Package domain holds the typed identifiers shared across the engine.
//
// Identities are 20-byte account addresses. Using a fixed-size array type
// instead of a raw string makes addresses comparable, usable as map keys, and
// impossible to confuse with other string-shaped values at compile time.
package domain

import (
	"encoding/hex"
	"strconv"
	"strings"

	dErrors "mintgate/pkg/domain-errors"
)

// AddressLength is the byte length of an account address.
const AddressLength = 20

// Address is a caller or owner identity. The canonical text form is
// "0x" followed by 40 lowercase hex digits.
type Address [AddressLength]byte

// ParseAddress validates and canonicalizes an address string. Input hex may be
// mixed case; the zero address is rejected at this trust boundary.
func ParseAddress(s string) (Address, error) {
	var addr Address
	if s == "" {
		return addr, dErrors.New(dErrors.CodeInvalidInput, "address cannot be empty")
	}
	hexPart, ok := strings.CutPrefix(s, "0x")
	if !ok {
		hexPart, ok = strings.CutPrefix(s, "0X")
	}
	if !ok {
		return addr, dErrors.New(dErrors.CodeInvalidInput, "address must start with 0x")
	}
	if len(hexPart) != AddressLength*2 {
		return addr, dErrors.New(dErrors.CodeInvalidInput, "address must be 20 bytes of hex")
	}
	decoded, err := hex.DecodeString(hexPart)
	if err != nil {
		return addr, dErrors.Wrap(err, dErrors.CodeInvalidInput, "address is not valid hex")
	}
	copy(addr[:], decoded)
	if addr.IsZero() {
		return addr, dErrors.New(dErrors.CodeInvalidInput, "zero address is not a valid identity")
	}
	return addr, nil
}

// MustAddress parses s and panics on failure. For tests and wiring only.
func MustAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// IsZero reports whether the address is the all-zero value.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String returns the canonical lowercase hex form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// MarshalText implements encoding.TextMarshaler so addresses render as their
// canonical form in JSON.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler with the same validation
// as ParseAddress.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// TokenID numbers an issued record. Valid ids are 1-based and dense: after n
// successful issuances the assigned ids are exactly 1..n.
type TokenID uint64

// ParseTokenID validates a token id from a transport path segment.
func ParseTokenID(s string) (TokenID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInvalidInput, "token id must be a positive integer")
	}
	if n == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "token id 0 is never assigned")
	}
	return TokenID(n), nil
}

func (id TokenID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}
