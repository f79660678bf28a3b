package cryptox

import (
	"bytes"
	"encoding/base64"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testKeyOnce sync.Once
	testKey     SessionKey
	otherKey    SessionKey
)

// keys derives the two test keys once; PBKDF2 with 100k rounds is slow.
func keys(t *testing.T) (SessionKey, SessionKey) {
	t.Helper()
	testKeyOnce.Do(func() {
		var err error
		testKey, err = DeriveSessionKey("4821093")
		if err != nil {
			panic(err)
		}
		otherKey, err = DeriveSessionKey("1111111")
		if err != nil {
			panic(err)
		}
	})
	return testKey, otherKey
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key, _ := keys(t)

	tests := []struct {
		name  string
		plain []byte
	}{
		{"empty", []byte{}},
		{"ascii", []byte("hello world")},
		{"unicode", []byte("Привет, мир 👋 — ünïcødé 漢字")},
		{"binary", []byte{0, 1, 2, 3, 4}},
		{"large", bytes.Repeat([]byte{0xAB}, 1<<20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Encrypt(tt.plain, key)
			require.NoError(t, err)

			got, err := Decrypt(env, key)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(tt.plain, got), "round-trip mismatch")
		})
	}
}

func TestEncrypt_HelloWorldScenario(t *testing.T) {
	key, err := DeriveSessionKey("4821093")
	require.NoError(t, err)

	env, err := EncryptString("hello world", key)
	require.NoError(t, err)

	got, err := DecryptString(env, key)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestEncrypt_EnvelopeLayout(t *testing.T) {
	key, _ := keys(t)

	env, err := Encrypt([]byte("abc"), key)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(string(env))
	require.NoError(t, err)
	// nonce(12) + ciphertext(3) + tag(16)
	assert.Len(t, raw, NonceSize+3+16)
}

func TestEncrypt_NonceUniqueness(t *testing.T) {
	key, _ := keys(t)

	a, err := EncryptString("same", key)
	require.NoError(t, err)
	b, err := EncryptString("same", key)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)

	ra, _ := base64.StdEncoding.DecodeString(string(a))
	rb, _ := base64.StdEncoding.DecodeString(string(b))
	assert.NotEqual(t, ra[:NonceSize], rb[:NonceSize])

	pa, err := DecryptString(a, key)
	require.NoError(t, err)
	pb, err := DecryptString(b, key)
	require.NoError(t, err)
	assert.Equal(t, "same", pa)
	assert.Equal(t, "same", pb)
}

func TestDecrypt_CrossKeyFails(t *testing.T) {
	k1, k2 := keys(t)

	env, err := EncryptString("top secret", k1)
	require.NoError(t, err)

	got, err := Decrypt(env, k2)
	assert.ErrorIs(t, err, ErrDecrypt)
	assert.Nil(t, got)
}

func TestDecrypt_TamperDetection(t *testing.T) {
	key, _ := keys(t)

	env, err := EncryptString("integrity matters", key)
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(string(env))
	require.NoError(t, err)

	// каждый байт после nonce (шифртекст и тег)
	for i := NonceSize; i < len(raw); i++ {
		mod := append([]byte(nil), raw...)
		mod[i] ^= 0x01
		_, err := Decrypt(Envelope(base64.StdEncoding.EncodeToString(mod)), key)
		require.ErrorIsf(t, err, ErrDecrypt, "flipped byte %d was not detected", i)
	}

	// и nonce тоже участвует в аутентификации
	mod := append([]byte(nil), raw...)
	mod[0] ^= 0x80
	_, err = Decrypt(Envelope(base64.StdEncoding.EncodeToString(mod)), key)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestDecrypt_Malformed(t *testing.T) {
	key, _ := keys(t)

	tests := []struct {
		name string
		env  Envelope
	}{
		{"not base64", "!!!not-base64!!!"},
		{"empty", ""},
		{"shorter than nonce", Envelope(base64.StdEncoding.EncodeToString([]byte{1, 2, 3}))},
		{"nonce without tag", Envelope(base64.StdEncoding.EncodeToString(make([]byte, NonceSize+4)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(tt.env, key)
			assert.ErrorIs(t, err, ErrDecrypt)
		})
	}
}

func TestEncrypt_RandomSourceFailure(t *testing.T) {
	key, _ := keys(t)

	orig := randReader
	randReader = failingReader{}
	defer func() { randReader = orig }()

	_, err := Encrypt([]byte("x"), key)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDecrypt)
}

func TestEncryptDecrypt_Concurrent(t *testing.T) {
	key, _ := keys(t)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			want := bytes.Repeat([]byte{byte(i)}, i)
			env, err := Encrypt(want, key)
			if err != nil {
				errs <- err
				return
			}
			got, err := Decrypt(env, key)
			if err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(want, got) {
				errs <- errors.New("mismatch")
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }
