package service

import (
	"testing"
	"time"

	"gitee.com/czyczk/evote-ballot-engine/internal/models/sqlmodel"
	"github.com/stretchr/testify/assert"
)

func buildChain(n int) []sqlmodel.EncryptedBallot {
	castAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	previous := GenesisHash
	var ballots []sqlmodel.EncryptedBallot
	for i := 0; i < n; i++ {
		ciphertext := []byte{byte(i), 0xAA, 0xBB}
		hash := ComputeBallotHash(1, castAt, ciphertext, previous)
		ballots = append(ballots, sqlmodel.EncryptedBallot{
			ID:           uint64(i + 1),
			ElectionID:   1,
			Ciphertext:   ciphertext,
			PreviousHash: previous,
			BallotHash:   hash,
			CastAt:       castAt,
		})
		previous = hash
		castAt = castAt.Add(time.Second)
	}
	return ballots
}

func TestComputeBallotHash(t *testing.T) {
	castAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	h := ComputeBallotHash(1, castAt, []byte{1}, GenesisHash)

	assert.Len(t, h, 64)
	assert.Equal(t, h, ComputeBallotHash(1, castAt.In(time.FixedZone("X", 3600)), []byte{1}, GenesisHash), "the zone does not matter")
	assert.NotEqual(t, h, ComputeBallotHash(2, castAt, []byte{1}, GenesisHash))
	assert.NotEqual(t, h, ComputeBallotHash(1, castAt.Add(time.Millisecond), []byte{1}, GenesisHash))
	assert.NotEqual(t, h, ComputeBallotHash(1, castAt, []byte{2}, GenesisHash))
	assert.NotEqual(t, h, ComputeBallotHash(1, castAt, []byte{1}, h))
}

func TestVerifyBallotChain(t *testing.T) {
	valid, brokenAt := VerifyBallotChain(nil)
	assert.True(t, valid)
	assert.Nil(t, brokenAt)

	valid, _ = VerifyBallotChain(buildChain(5))
	assert.True(t, valid)

	badGenesis := buildChain(3)
	badGenesis[0].PreviousHash = badGenesis[2].BallotHash
	valid, brokenAt = VerifyBallotChain(badGenesis)
	assert.False(t, valid)
	assert.EqualValues(t, 1, *brokenAt)

	badLink := buildChain(4)
	badLink[2].PreviousHash = badLink[0].BallotHash
	valid, brokenAt = VerifyBallotChain(badLink)
	assert.False(t, valid)
	assert.EqualValues(t, 3, *brokenAt)

	badContent := buildChain(4)
	badContent[3].Ciphertext = []byte{0}
	valid, brokenAt = VerifyBallotChain(badContent)
	assert.False(t, valid)
	assert.EqualValues(t, 4, *brokenAt)
}
