package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"gitee.com/czyczk/evote-ballot-engine/internal/models/common"
	"gitee.com/czyczk/evote-ballot-engine/internal/models/sqlmodel"
	"gitee.com/czyczk/evote-ballot-engine/pkg/errorcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingTokenGen struct{}

func (failingTokenGen) NewToken() (string, error) {
	return "", fmt.Errorf("entropy source unavailable")
}

func TestIssueBallotCredential(t *testing.T) {
	f := newFixture(t)
	election, _ := f.seedElection(sqlmodel.ElectionStatusOpen, true, "Yes")
	voter := f.seedVoter(election.ID, "a@example.com", "1990-06-15")
	f.seedToken(voter, "T", time.Hour)

	_, err := f.tokens.VerifyIdentity("T", "1990-06-15")
	require.NoError(t, err)

	cred, err := f.bridge.IssueBallotCredential("T")
	require.NoError(t, err)
	assert.Equal(t, election.ID, cred.ElectionID)
	assert.GreaterOrEqual(t, len(cred.BallotCredential), 22)

	var credentialDB sqlmodel.BlindBallotCredential
	require.NoError(t, f.db.Where("ballot_token = ?", cred.BallotCredential).Take(&credentialDB).Error)
	assert.Equal(t, election.ID, credentialDB.ElectionID)
	assert.False(t, credentialDB.IsUsed)

	var tokenDB sqlmodel.VotingToken
	require.NoError(t, f.db.Where("token = ?", "T").Take(&tokenDB).Error)
	assert.True(t, tokenDB.IsUsed)
	assert.True(t, tokenDB.UsedAt.Valid)

	var voterDB sqlmodel.Voter
	require.NoError(t, f.db.Take(&voterDB, voter.ID).Error)
	assert.True(t, voterDB.HasVoted)

	var records []sqlmodel.AuditRecord
	require.NoError(t, f.db.Where("event_type = ?", common.AuditEventBallotCredentialIssued).Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, election.ID, records[0].ElectionID)

	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(records[0].Detail), &detail))
	assert.Equal(t, []string{"electionId"}, keys(detail))
	assert.NotContains(t, records[0].Detail, cred.BallotCredential)

	_, err = f.bridge.IssueBallotCredential("T")
	assert.Equal(t, errorcode.ErrorAlreadyUsed, err)
}

func keys(m map[string]interface{}) []string {
	var ret []string
	for k := range m {
		ret = append(ret, k)
	}
	return ret
}

func TestIssueBallotCredentialRequiresIdentityVerification(t *testing.T) {
	f := newFixture(t)
	election, _ := f.seedElection(sqlmodel.ElectionStatusOpen, true, "Yes")
	f.seedToken(f.seedVoter(election.ID, "a@example.com", "1990-06-15"), "T", time.Hour)

	_, err := f.bridge.IssueBallotCredential("T")
	assert.Equal(t, errorcode.ErrorIdentityVerificationRequired, err)
	assert.EqualValues(t, 0, f.count(&sqlmodel.BlindBallotCredential{}, ""))
	assert.EqualValues(t, 0, f.count(&sqlmodel.VotingToken{}, "is_used = ?", true))
}

func TestIssueBallotCredentialRejectsSecondTokenOfVoter(t *testing.T) {
	f := newFixture(t)
	election, _ := f.seedElection(sqlmodel.ElectionStatusOpen, true, "Yes")
	voter := f.seedVoter(election.ID, "a@example.com", "1990-06-15")
	f.seedToken(voter, "first", time.Hour)
	f.seedToken(voter, "second", time.Hour)

	for _, token := range []string{"first", "second"} {
		_, err := f.tokens.VerifyIdentity(token, "1990-06-15")
		require.NoError(t, err)
	}

	_, err := f.bridge.IssueBallotCredential("first")
	require.NoError(t, err)

	_, err = f.bridge.IssueBallotCredential("second")
	assert.Equal(t, errorcode.ErrorAlreadyVoted, err)
	assert.EqualValues(t, 1, f.count(&sqlmodel.BlindBallotCredential{}, ""))
}

func TestIssueBallotCredentialRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	election, _ := f.seedElection(sqlmodel.ElectionStatusOpen, true, "Yes")
	voter := f.seedVoter(election.ID, "a@example.com", "1990-06-15")
	f.seedToken(voter, "T", time.Hour)
	_, err := f.tokens.VerifyIdentity("T", "1990-06-15")
	require.NoError(t, err)

	f.info.TokenGen = failingTokenGen{}
	_, err = f.bridge.IssueBallotCredential("T")
	require.Error(t, err)
	assert.False(t, errorcode.IsValidationError(err))

	assert.EqualValues(t, 0, f.count(&sqlmodel.VotingToken{}, "is_used = ?", true))
	assert.EqualValues(t, 0, f.count(&sqlmodel.Voter{}, "has_voted = ?", true))
	assert.EqualValues(t, 0, f.count(&sqlmodel.BlindBallotCredential{}, ""))
	assert.EqualValues(t, 0, f.count(&sqlmodel.AuditRecord{}, ""))
}

func TestIssueBallotCredentialConcurrentCallsSucceedOnce(t *testing.T) {
	f := newFixture(t)
	election, _ := f.seedElection(sqlmodel.ElectionStatusOpen, true, "Yes")
	f.seedToken(f.seedVoter(election.ID, "a@example.com", "1990-06-15"), "T", time.Hour)
	_, err := f.tokens.VerifyIdentity("T", "1990-06-15")
	require.NoError(t, err)

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.bridge.IssueBallotCredential("T")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, err == errorcode.ErrorAlreadyUsed || err == errorcode.ErrorAlreadyVoted, err.Error())
	}

	assert.Equal(t, 1, succeeded)
	assert.EqualValues(t, 1, f.count(&sqlmodel.BlindBallotCredential{}, ""))
}

func TestBlindBallotCredentialCannotBeJoinedToVoter(t *testing.T) {
	f := newFixture(t)
	election, _ := f.seedElection(sqlmodel.ElectionStatusOpen, true, "Yes")
	cred := f.credentialFor(election.ID, "a@example.com")

	columnTypes, err := f.db.Migrator().ColumnTypes(&sqlmodel.BlindBallotCredential{})
	require.NoError(t, err)
	for _, c := range columnTypes {
		name := strings.ToLower(c.Name())
		assert.NotContains(t, name, "voter")
		assert.NotContains(t, name, "created")
		assert.NotEqual(t, "token", name)
		assert.NotEqual(t, "id", name)
	}

	// No stored value of the identity side equals the credential.
	assert.EqualValues(t, 0, f.count(&sqlmodel.VotingToken{}, "token = ?", cred))
	assert.EqualValues(t, 0, f.count(&sqlmodel.IdentityVerification{}, "token = ?", cred))
	assert.EqualValues(t, 0, f.count(&sqlmodel.AuditRecord{}, "detail LIKE ?", "%"+cred+"%"))
}
