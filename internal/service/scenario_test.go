package service

import (
	"testing"
	"time"

	"gitee.com/czyczk/evote-ballot-engine/internal/models/sqlmodel"
	"gitee.com/czyczk/evote-ballot-engine/pkg/errorcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoterJourney(t *testing.T) {
	f := newFixture(t)
	election, options := f.seedElection(sqlmodel.ElectionStatusOpen, true, "Yes", "No")
	voter := f.seedVoter(election.ID, "v@example.com", "1990-06-15")
	f.seedToken(voter, "T", 7*24*time.Hour)

	validation, err := f.tokens.ValidateToken("T")
	require.NoError(t, err)
	assert.True(t, validation.Valid)

	identity, err := f.tokens.VerifyIdentity("T", "1990-06-15")
	require.NoError(t, err)
	assert.True(t, identity.Verified)

	cred, err := f.bridge.IssueBallotCredential("T")
	require.NoError(t, err)

	f.advance(time.Minute)
	vote, err := f.ledger.CastVote(cred.BallotCredential, options[0].ID, election.ID)
	require.NoError(t, err)

	receipt, err := f.receipt.VerifyReceipt(vote.ReceiptToken)
	require.NoError(t, err)
	assert.Equal(t, vote.BallotHash, receipt.BallotHash)

	_, err = f.bridge.IssueBallotCredential("T")
	assert.Equal(t, errorcode.ErrorAlreadyUsed, err)

	_, err = f.ledger.CastVote(cred.BallotCredential, options[0].ID, election.ID)
	assert.Equal(t, errorcode.ErrorAlreadyUsed, err)

	f.setElectionStatus(election.ID, sqlmodel.ElectionStatusClosed)
	trail, err := f.audit.AuditTrail(election.ID)
	require.NoError(t, err)
	assert.True(t, trail.ChainValid)
	assert.Equal(t, 1, trail.TotalBallots)
}
