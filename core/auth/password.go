package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters are encoded next to the hash so they can be raised
// without invalidating stored credentials.
const (
	argonTime    = 2
	argonMemory  = 64 * 1024
	argonThreads = 1
	argonKeyLen  = 32
	saltLen      = 16
)

type PasswordHash struct {
	Hash string
	Salt string

	time    uint32
	memory  uint32
	threads uint8
}

// HashPassword derives an argon2id hash from the password, a fresh per-user
// salt and the deployment pepper.
func HashPassword(password, pepper string) (*PasswordHash, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key := argon2.IDKey([]byte(password+pepper), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	encoded := fmt.Sprintf("argon2id$v=%d$m=%d,t=%d,p=%d$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(key))
	return &PasswordHash{
		Hash:    encoded,
		Salt:    base64.RawStdEncoding.EncodeToString(salt),
		time:    argonTime,
		memory:  argonMemory,
		threads: argonThreads,
	}, nil
}

func MustHashPassword(password, pepper string) *PasswordHash {
	ph, err := HashPassword(password, pepper)
	if err != nil {
		panic(err)
	}
	return ph
}

// ParsePasswordHash splits a stored hash back into its parameters.
func ParsePasswordHash(hash, salt string) (*PasswordHash, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 4 || parts[0] != "argon2id" {
		return nil, errors.New("unrecognized password hash format")
	}
	ph := &PasswordHash{Hash: hash, Salt: salt, time: argonTime, memory: argonMemory, threads: argonThreads}
	for _, kv := range strings.Split(parts[2], ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad hash parameter %s: %w", kv, err)
		}
		switch k {
		case "m":
			ph.memory = uint32(n)
		case "t":
			ph.time = uint32(n)
		case "p":
			ph.threads = uint8(n)
		}
	}
	return ph, nil
}

// VerifyPassword recomputes the hash with the stored parameters and compares
// in constant time.
func VerifyPassword(password, pepper string, ph *PasswordHash) (bool, error) {
	if ph == nil {
		return false, errors.New("nil password hash")
	}
	salt, err := base64.RawStdEncoding.DecodeString(ph.Salt)
	if err != nil {
		return false, fmt.Errorf("decode salt: %w", err)
	}
	parts := strings.Split(ph.Hash, "$")
	if len(parts) != 4 {
		return false, errors.New("unrecognized password hash format")
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false, fmt.Errorf("decode hash: %w", err)
	}
	got := argon2.IDKey([]byte(password+pepper), salt, ph.time, ph.memory, ph.threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// decoyHash is verified against when a login names an unknown user, so the
// response time does not reveal whether the username exists.
var decoyHash = MustHashPassword("decoy-password", "")

func VerifyDecoy(password, pepper string) {
	_, _ = VerifyPassword(password, pepper, decoyHash)
}
