package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

const (
	// MinSecretLength is the shortest signing secret accepted.
	MinSecretLength = 32

	// MaxTokenLength bounds the work done on untrusted input. Browsers drop
	// cookies larger than this anyway.
	MaxTokenLength = 4096

	tokenVersion = "v1"
	keyInfo      = "websession-codec-v1"
)

var b64 = base64.RawURLEncoding.Strict()

// claims is the signed payload. Field names are short because the token
// travels in every request.
type claims struct {
	ID        string `json:"sid"`
	UserID    string `json:"uid"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
	Remember  bool   `json:"rem,omitempty"`
}

func (c claims) record() Record {
	return Record{
		ID:        c.ID,
		UserID:    c.UserID,
		CreatedAt: time.Unix(c.IssuedAt, 0).UTC(),
		ExpiresAt: time.Unix(c.ExpiresAt, 0).UTC(),
		Remember:  c.Remember,
	}
}

// Codec signs records into opaque tokens and verifies them back.
// The first secret signs; every secret verifies, which allows rotation.
type Codec struct {
	keys [][]byte
	now  func() time.Time
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithCodecClock overrides the clock used for expiry checks.
func WithCodecClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCodec creates a codec from one or more secrets.
func NewCodec(secrets []string, opts ...CodecOption) (*Codec, error) {
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	c := &Codec{
		keys: make([][]byte, 0, len(secrets)),
		now:  time.Now,
	}
	for _, secret := range secrets {
		if len(secret) < MinSecretLength {
			return nil, ErrSecretTooShort
		}
		key, err := deriveKey(secret)
		if err != nil {
			return nil, err
		}
		c.keys = append(c.keys, key)
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Encode signs rec. The output is v1.<payload>.<mac>, base64url without padding.
func (c *Codec) Encode(rec Record) (string, error) {
	if !rec.valid() {
		return "", ErrInvalidRecord
	}

	payload, err := json.Marshal(claims{
		ID:        rec.ID,
		UserID:    rec.UserID,
		IssuedAt:  rec.CreatedAt.Unix(),
		ExpiresAt: rec.ExpiresAt.Unix(),
		Remember:  rec.Remember,
	})
	if err != nil {
		return "", err
	}

	signed := tokenVersion + "." + b64.EncodeToString(payload)
	return signed + "." + b64.EncodeToString(sign(c.keys[0], signed)), nil
}

// Decode verifies token and returns its record. Nothing from the payload
// is trusted before the signature checks out. Expired tokens return a zero
// Record with ErrSessionExpired.
func (c *Codec) Decode(token string) (Record, error) {
	if token == "" || len(token) > MaxTokenLength {
		return Record{}, ErrMalformedToken
	}

	version, rest, ok := strings.Cut(token, ".")
	if !ok || version != tokenVersion {
		return Record{}, ErrMalformedToken
	}
	payload, sig, ok := strings.Cut(rest, ".")
	if !ok || payload == "" || strings.Contains(sig, ".") {
		return Record{}, ErrMalformedToken
	}

	mac, err := b64.DecodeString(sig)
	if err != nil || len(mac) != sha256.Size {
		return Record{}, ErrMalformedToken
	}
	if !c.verify(version+"."+payload, mac) {
		return Record{}, ErrInvalidSignature
	}

	raw, err := b64.DecodeString(payload)
	if err != nil {
		return Record{}, ErrMalformedToken
	}
	var cl claims
	if err := json.Unmarshal(raw, &cl); err != nil {
		return Record{}, ErrMalformedToken
	}

	rec := cl.record()
	if !rec.valid() {
		return Record{}, ErrMalformedToken
	}
	if rec.IsExpired(c.now()) {
		return Record{}, ErrSessionExpired
	}

	return rec, nil
}

func (c *Codec) verify(signed string, mac []byte) bool {
	ok := false
	for _, key := range c.keys {
		// no early exit: every key is tried
		if hmac.Equal(sign(key, signed), mac) {
			ok = true
		}
	}
	return ok
}

func sign(key []byte, signed string) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(signed))
	return h.Sum(nil)
}

func deriveKey(secret string) ([]byte, error) {
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, err
	}
	return key, nil
}
