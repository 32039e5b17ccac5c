package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2Params are the argon2id cost parameters. They are embedded in every
// encoded hash, so changing them does not invalidate stored hashes.
type Argon2Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultArgon2Params: 1 pass, 64 MiB, 4 lanes, 32-byte key, 16-byte salt.
var DefaultArgon2Params = Argon2Params{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

var errBadHash = errors.New("malformed password hash")

// Hash derives the PHC-encoded argon2id hash of secret with the given salt.
// It is a pure function of its inputs.
func Hash(secret string, salt []byte, p Argon2Params) string {
	key := argon2.IDKey([]byte(secret), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}

type decodedHash struct {
	params Argon2Params
	salt   []byte
	key    []byte
}

func decodeHash(encoded string) (*decodedHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, errBadHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, errBadHash
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	d := &decodedHash{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &d.params.Memory, &d.params.Time, &d.params.Threads); err != nil {
		return nil, errBadHash
	}

	var err error
	if d.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, errBadHash
	}
	if d.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, errBadHash
	}
	if len(d.key) == 0 {
		return nil, errBadHash
	}
	d.params.KeyLen = uint32(len(d.key))
	d.params.SaltLen = uint32(len(d.salt))
	return d, nil
}

// Hasher hashes and verifies account secrets.
type Hasher struct {
	params Argon2Params
	rand   io.Reader
	dummy  string
}

// NewHasher returns a Hasher drawing salts from r (crypto/rand when nil).
// It derives one throwaway hash up front so that VerifyDummy costs the same
// as a real Verify.
func NewHasher(r io.Reader, params Argon2Params) (*Hasher, error) {
	if r == nil {
		r = rand.Reader
	}
	h := &Hasher{params: params, rand: r}

	salt, err := h.NewSalt()
	if err != nil {
		return nil, err
	}
	h.dummy = Hash("dummy-secret", salt, params)
	return h, nil
}

// NewSalt reads SaltLen bytes from the hasher's random source.
func (h *Hasher) NewSalt() ([]byte, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := io.ReadFull(h.rand, salt); err != nil {
		return nil, fmt.Errorf("read salt: %w", err)
	}
	return salt, nil
}

// HashSecret hashes secret with a fresh salt.
func (h *Hasher) HashSecret(secret string) (string, error) {
	salt, err := h.NewSalt()
	if err != nil {
		return "", err
	}
	return Hash(secret, salt, h.params), nil
}

// Verify reports whether secret matches encoded. Malformed hashes never match.
func (h *Hasher) Verify(secret, encoded string) bool {
	d, err := decodeHash(encoded)
	if err != nil {
		return false
	}
	key := argon2.IDKey([]byte(secret), d.salt, d.params.Time, d.params.Memory, d.params.Threads, d.params.KeyLen)
	return subtle.ConstantTimeCompare(key, d.key) == 1
}

// VerifyDummy performs a full verification against a hash no secret is known
// for and always returns false. Used when the account does not exist.
func (h *Hasher) VerifyDummy(secret string) bool {
	h.Verify(secret, h.dummy)
	return false
}
