package service

import (
	"crypto/rand"
	"io"
	"sync"
	"testing"
	"time"

	"gitee.com/czyczk/evote-ballot-engine/internal/appinit"
	"gitee.com/czyczk/evote-ballot-engine/internal/models/sqlmodel"
	"gitee.com/czyczk/evote-ballot-engine/internal/utils/idutils"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fixture is an isolated credential store with every service wired to it.
type fixture struct {
	t  *testing.T
	db *gorm.DB

	mu   sync.Mutex
	now  time.Time
	step time.Duration // Added to the clock after every read

	info    *Info
	tokens  *TokenService
	bridge  *BridgeService
	ledger  *LedgerService
	audit   *AuditService
	receipt *ReceiptService
	results *ResultsService
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithDatabase(t, appinit.DatabaseInfo{Driver: "sqlite", DSN: ":memory:"})
}

// newFixtureWithDatabase migrates the given database and wires every service to it.
// Databases other than in-memory SQLite are shared between tests, so queries must filter by election.
func newFixtureWithDatabase(t *testing.T, dbInfo appinit.DatabaseInfo) *fixture {
	db, err := appinit.OpenDatabase(dbInfo)
	require.NoError(t, err)
	require.NoError(t, appinit.MigrateDatabase(db))
	t.Cleanup(func() { _ = appinit.CloseDatabase(db) })

	tokenGen, err := idutils.NewSecureTokenGenerator(idutils.DefaultTokenBytes)
	require.NoError(t, err)
	idGen, err := idutils.NewSnowflakeGenerator(1)
	require.NoError(t, err)

	f := &fixture{
		t:   t,
		db:  db,
		now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.info = &Info{
		DB:       db,
		TokenGen: tokenGen,
		IDGen:    idGen,
		Now:      f.clock,
	}
	f.tokens = &TokenService{ServiceInfo: f.info}
	f.bridge = &BridgeService{ServiceInfo: f.info}
	f.ledger = &LedgerService{ServiceInfo: f.info}
	f.audit = &AuditService{ServiceInfo: f.info}
	f.receipt = &ReceiptService{ServiceInfo: f.info}
	f.results = &ResultsService{ServiceInfo: f.info}

	return f
}

func (f *fixture) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	ret := f.now
	f.now = f.now.Add(f.step)
	return ret
}

func (f *fixture) setStep(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = d
}

func (f *fixture) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// seedElection creates an election with the given options (in display order).
func (f *fixture) seedElection(status string, withKey bool, options ...string) (*sqlmodel.Election, []sqlmodel.ElectionOption) {
	election := &sqlmodel.Election{
		Title:  "Board election",
		Status: status,
	}
	if withKey {
		election.EncryptionKey = make([]byte, 32)
		_, err := io.ReadFull(rand.Reader, election.EncryptionKey)
		require.NoError(f.t, err)
	}
	require.NoError(f.t, f.db.Create(election).Error)

	var optionsDB []sqlmodel.ElectionOption
	for i, text := range options {
		o := sqlmodel.ElectionOption{ElectionID: election.ID, OptionText: text, DisplayOrder: i + 1}
		require.NoError(f.t, f.db.Create(&o).Error)
		optionsDB = append(optionsDB, o)
	}

	return election, optionsDB
}

func (f *fixture) setElectionStatus(electionID uint64, status string) {
	require.NoError(f.t, f.db.Model(&sqlmodel.Election{}).Where("id = ?", electionID).Update("status", status).Error)
}

func (f *fixture) seedVoter(electionID uint64, email, dob string) *sqlmodel.Voter {
	voter := &sqlmodel.Voter{ElectionID: electionID, Email: email, DateOfBirth: dob}
	require.NoError(f.t, f.db.Create(voter).Error)
	return voter
}

func (f *fixture) seedToken(voter *sqlmodel.Voter, value string, validFor time.Duration) *sqlmodel.VotingToken {
	token := &sqlmodel.VotingToken{
		Token:      value,
		VoterID:    voter.ID,
		ElectionID: voter.ElectionID,
		ExpiresAt:  f.clock().Add(validFor),
	}
	require.NoError(f.t, f.db.Create(token).Error)
	return token
}

// credentialFor walks a fresh voter through identity verification and the bridge.
func (f *fixture) credentialFor(electionID uint64, email string) string {
	voter := f.seedVoter(electionID, email, "1990-06-15")
	f.seedToken(voter, "tok-"+email, 7*24*time.Hour)

	_, err := f.tokens.VerifyIdentity("tok-"+email, "1990-06-15")
	require.NoError(f.t, err)

	cred, err := f.bridge.IssueBallotCredential("tok-" + email)
	require.NoError(f.t, err)
	return cred.BallotCredential
}

func (f *fixture) count(model interface{}, query string, args ...interface{}) int64 {
	var n int64
	tx := f.db.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	require.NoError(f.t, tx.Count(&n).Error)
	return n
}
