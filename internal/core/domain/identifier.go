package domain

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// RequestID is the content-derived 256-bit identifier addressing a trade
// request. Two requests with identical identifying fields always map to the
// same identifier, which gives idempotent addressing without a shared
// counter.
type RequestID struct {
	uint256.Int
}

// DeriveRequestID computes the identifier of a trade request from its
// canonical field tuple. The digest is SHA3-256 over the concatenation of:
//
//	enc(requestor) || enc(requestee) ||
//	enc(assetACollection) || enc(assetBCollection) ||
//	assetAId.be32 || assetBId.be32
//
// where enc(s) is a 4-byte big-endian byte length followed by the raw UTF-8
// bytes of s, and .be32 is the 32-byte big-endian encoding of the uint256.
// The expiration is deliberately not part of the input. Independent
// implementations must reproduce this encoding bit-for-bit to agree on
// identifiers.
func DeriveRequestID(
	requestor, requestee, assetACollection, assetBCollection string,
	assetAId, assetBId *uint256.Int,
) RequestID {
	h := sha3.New256()

	var lenBuf [4]byte
	writeString := func(s string) {
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(s)))
		h.Write(lenBuf[:])
		h.Write([]byte(s))
	}
	writeUint := func(u *uint256.Int) {
		word := u.Bytes32()
		h.Write(word[:])
	}

	writeString(requestor)
	writeString(requestee)
	writeString(assetACollection)
	writeString(assetBCollection)
	writeUint(assetAId)
	writeUint(assetBId)

	var id RequestID
	id.SetBytes(h.Sum(nil))
	return id
}

// RequestIDFromString parses a 0x-prefixed hex identifier as rendered by
// String.
func RequestIDFromString(s string) (RequestID, error) {
	var id RequestID
	if err := id.SetFromHex(s); err != nil {
		return RequestID{}, fmt.Errorf("invalid request id: %w", err)
	}
	return id, nil
}

func (id RequestID) String() string {
	return id.Hex()
}

// MarshalText implements encoding.TextMarshaler, rendering the identifier
// as 0x-prefixed hex.
func (id RequestID) MarshalText() ([]byte, error) {
	return []byte(id.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *RequestID) UnmarshalText(text []byte) error {
	return id.SetFromHex(string(text))
}

// Equal returns whether two identifiers hold the same value.
func (id RequestID) Equal(other RequestID) bool {
	return id.Eq(&other.Int)
}
