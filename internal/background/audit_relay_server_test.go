package background

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"gitee.com/czyczk/evote-ballot-engine/internal/appinit"
	"gitee.com/czyczk/evote-ballot-engine/internal/db"
	"gitee.com/czyczk/evote-ballot-engine/internal/models/common"
	"gitee.com/czyczk/evote-ballot-engine/internal/models/sqlmodel"
	"gitee.com/czyczk/evote-ballot-engine/internal/service"
	"gitee.com/czyczk/evote-ballot-engine/internal/utils/idutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, messageID string, body []byte) error {
	args := m.Called(routingKey, messageID, body)
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	return m.Called().Error(0)
}

func newRelayFixture(t *testing.T, n int) (*service.Info, []*sqlmodel.AuditRecord) {
	gormDB, err := appinit.OpenDatabase(appinit.DatabaseInfo{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, appinit.MigrateDatabase(gormDB))
	t.Cleanup(func() { _ = appinit.CloseDatabase(gormDB) })

	idGen, err := idutils.NewSnowflakeGenerator(1)
	require.NoError(t, err)

	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	info := &service.Info{
		DB:    gormDB,
		IDGen: idGen,
		Now:   func() time.Time { return now },
	}

	var records []*sqlmodel.AuditRecord
	for i := 0; i < n; i++ {
		detail := common.BallotCastDetail{ElectionID: 1, ReceiptToken: fmt.Sprintf("r%d", i)}
		record, err := db.SaveAuditRecord(idGen, common.AuditEventBallotCast, 1, common.AuditActorAnonymous, detail, now, gormDB)
		require.NoError(t, err)
		records = append(records, record)
	}

	return info, records
}

func countUnpublished(t *testing.T, info *service.Info) int {
	records, err := db.ListUnpublishedAuditRecords(1000, info.DB)
	require.NoError(t, err)
	return len(records)
}

func TestRelayOncePublishesInOrder(t *testing.T) {
	info, records := newRelayFixture(t, 3)

	publisher := &mockPublisher{}
	var published []string
	publisher.On("Publish", "audit.record", mock.AnythingOfType("string"), mock.AnythingOfType("[]uint8")).
		Run(func(args mock.Arguments) {
			published = append(published, args.String(1))

			var msg common.AuditMessage
			require.NoError(t, json.Unmarshal(args.Get(2).([]byte), &msg))
			assert.Equal(t, common.AuditEventBallotCast, msg.EventType)
			assert.EqualValues(t, 1, msg.ElectionID)
			assert.Contains(t, msg.Detail, "receiptToken")
		}).
		Return(nil)

	server := NewAuditRelayServer(info, publisher, "audit.record", "@every 1h", 100)
	n, err := server.RelayOnce()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var expected []string
	for _, r := range records {
		expected = append(expected, sqlmodel.FormatAuditRecordID(r.ID))
	}
	assert.Equal(t, expected, published)
	assert.Equal(t, 0, countUnpublished(t, info))

	n, err = server.RelayOnce()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	publisher.AssertNumberOfCalls(t, "Publish", 3)
}

func TestRelayOnceStopsAtFirstFailure(t *testing.T) {
	info, records := newRelayFixture(t, 3)
	failing := sqlmodel.FormatAuditRecordID(records[1].ID)

	publisher := &mockPublisher{}
	publisher.On("Publish", "audit.record", failing, mock.Anything).Return(fmt.Errorf("broker unavailable")).Once()
	publisher.On("Publish", "audit.record", mock.Anything, mock.Anything).Return(nil)

	server := NewAuditRelayServer(info, publisher, "audit.record", "@every 1h", 100)
	n, err := server.RelayOnce()
	assert.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, countUnpublished(t, info))

	n, err = server.RelayOnce()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, countUnpublished(t, info))
}

func TestRelayOnceHonoursBatchSize(t *testing.T) {
	info, _ := newRelayFixture(t, 5)

	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	server := NewAuditRelayServer(info, publisher, "audit.record", "@every 1h", 2)
	n, err := server.RelayOnce()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, countUnpublished(t, info))
}

func TestAuditRelayServerStartStop(t *testing.T) {
	info, _ := newRelayFixture(t, 0)
	publisher := &mockPublisher{}

	bad := NewAuditRelayServer(info, publisher, "audit.record", "not a schedule", 10)
	assert.Error(t, bad.Start())

	server := NewAuditRelayServer(info, publisher, "audit.record", "@every 1h", 10)
	_, err := server.Stop()
	assert.Error(t, err, "stopping a server that never started")

	require.NoError(t, server.Start())
	assert.Error(t, server.Start())

	wg, err := server.Stop()
	require.NoError(t, err)
	wg.Wait()

	_, err = server.Stop()
	assert.Error(t, err)

	// A stopped server can be started again
	require.NoError(t, server.Start())
	wg, err = server.Stop()
	require.NoError(t, err)
	wg.Wait()
}

func TestScheduledRunAfterStopDoesNothing(t *testing.T) {
	info, _ := newRelayFixture(t, 2)
	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	server := NewAuditRelayServer(info, publisher, "audit.record", "@every 1h", 10)
	require.NoError(t, server.Start())
	wg, err := server.Stop()
	require.NoError(t, err)
	wg.Wait()

	// A run cron fired just before being stopped
	server.scheduledRun()
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 2, countUnpublished(t, info))
}

func TestStopWaitsForScheduledRunInProgress(t *testing.T) {
	info, _ := newRelayFixture(t, 1)

	entered := make(chan struct{})
	release := make(chan struct{})
	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(nil)

	server := NewAuditRelayServer(info, publisher, "audit.record", "@every 1h", 10)
	require.NoError(t, server.Start())

	go server.scheduledRun()
	<-entered

	wg, err := server.Stop()
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("the wait group was released while a run was still publishing")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("the wait group was not released after the run finished")
	}
	assert.Equal(t, 0, countUnpublished(t, info))
}

func TestBackgroundServerStatusTransitions(t *testing.T) {
	status := newBackgroundServerStatus("测试服务器")

	assert.Error(t, status.beginStop())
	require.NoError(t, status.beginStart())
	assert.Error(t, status.beginStart())
	assert.Error(t, status.beginStop())

	status.endStart(false)
	require.NoError(t, status.beginStart())
	status.endStart(true)
	assert.Error(t, status.beginStart())

	require.NoError(t, status.beginStop())
	assert.Error(t, status.beginStop())
	assert.Error(t, status.beginStart())
	status.endStop()
	assert.NoError(t, status.beginStart())
}
