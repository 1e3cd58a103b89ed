package cipherutils

import (
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSecret(t *testing.T) []byte {
	secret := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, secret)
	require.NoError(t, err)
	return secret
}

func TestAESEncryptionDecryption(t *testing.T) {
	key := newSecret(t)
	documentBytes := []byte("Document for test")
	ad := []byte("ad")

	encryptedBytes, err := EncryptBytesUsingAESKey(documentBytes, key, ad)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	decryptedBytes, err := DecryptBytesUsingAESKey(encryptedBytes, key, ad)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, documentBytes, decryptedBytes)

	// 附加数据不一致时必须解密失败
	_, err = DecryptBytesUsingAESKey(encryptedBytes, key, []byte("other"))
	assert.Error(t, err)

	_, err = DecryptBytesUsingAESKey(encryptedBytes[:4], key, ad)
	assert.Error(t, err)
}

func TestDeriveBallotKey(t *testing.T) {
	secret := newSecret(t)

	k1, err := DeriveBallotKey(secret, 1)
	require.NoError(t, err)
	k1Again, err := DeriveBallotKey(secret, 1)
	require.NoError(t, err)
	k2, err := DeriveBallotKey(secret, 2)
	require.NoError(t, err)

	assert.Len(t, k1, BallotKeySize)
	assert.Equal(t, k1, k1Again)
	assert.NotEqual(t, k1, k2)

	_, err = DeriveBallotKey(nil, 1)
	assert.Error(t, err)
}

func TestBallotChoiceRoundTrip(t *testing.T) {
	secret := newSecret(t)

	ciphertext, err := EncryptBallotChoice(secret, 7, 42)
	require.NoError(t, err)

	optionID, err := DecryptBallotChoice(secret, 7, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), optionID)

	// A ballot moved to another election must not open.
	_, err = DecryptBallotChoice(secret, 8, ciphertext)
	assert.Error(t, err)
}

func TestBallotCiphertextLengthIsIndependentOfChoice(t *testing.T) {
	secret := newSecret(t)

	small, err := EncryptBallotChoice(secret, 1, 1)
	require.NoError(t, err)
	large, err := EncryptBallotChoice(secret, 1, 1<<40)
	require.NoError(t, err)

	assert.Equal(t, len(small), len(large))
}

func TestDecodeBallotChoiceRejectsWrongLength(t *testing.T) {
	_, err := DecodeBallotChoice([]byte{1, 2, 3})
	assert.Error(t, err)
}
