package background

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gitee.com/czyczk/evote-ballot-engine/internal/db"
	"gitee.com/czyczk/evote-ballot-engine/internal/messaging"
	"gitee.com/czyczk/evote-ballot-engine/internal/models/common"
	"gitee.com/czyczk/evote-ballot-engine/internal/models/sqlmodel"
	"gitee.com/czyczk/evote-ballot-engine/internal/service"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// AuditRelayServer 定时将审计记录发布到消息队列。
//
// Records are read from the audit_records outbox in ID order and stamped as published one by one.
// A failed publish stops the run; the remaining records are retried on the next tick.
type AuditRelayServer struct {
	ServiceInfo  *service.Info
	Publisher    messaging.Publisher
	RoutingKey   string
	Schedule     string
	BatchSize    int
	cron         *cron.Cron
	wg           sync.WaitGroup
	runMu        sync.Mutex
	jobMu        sync.Mutex // Guards `accepting` and the `wg.Add` of scheduled runs
	accepting    bool
	serverStatus *backgroundServerStatus
}

func NewAuditRelayServer(serviceInfo *service.Info, publisher messaging.Publisher, routingKey string, schedule string, batchSize int) *AuditRelayServer {
	return &AuditRelayServer{
		ServiceInfo:  serviceInfo,
		Publisher:    publisher,
		RoutingKey:   routingKey,
		Schedule:     schedule,
		BatchSize:    batchSize,
		wg:           sync.WaitGroup{},
		serverStatus: newBackgroundServerStatus("审计转发服务器"),
	}
}

// Start schedules the relay runs.
func (s *AuditRelayServer) Start() (err error) {
	log.Infoln("正在启动审计转发服务器...")

	// Don't start the server again if it has been started.
	if err = s.serverStatus.beginStart(); err != nil {
		return err
	}
	defer func() { s.serverStatus.endStart(err == nil) }()

	c := cron.New()
	if err = c.AddFunc(s.Schedule, s.scheduledRun); err != nil {
		return errors.Wrapf(err, "无法解析审计转发计划 '%v'", s.Schedule)
	}

	s.jobMu.Lock()
	s.accepting = true
	s.jobMu.Unlock()

	s.cron = c
	s.cron.Start()

	log.Infoln("审计转发服务器已启动。")
	return nil
}

// Stop stops scheduling new runs.
//
// Returns
//
//	a wait group that can be used to block the caller Go routine until a run in progress finishes
func (s *AuditRelayServer) Stop() (*sync.WaitGroup, error) {
	// Don't send stop signals again if the server has already been called to stop.
	if err := s.serverStatus.beginStop(); err != nil {
		return nil, err
	}
	defer s.serverStatus.endStop()

	s.cron.Stop()

	// A run fired by cron either registered itself before this point or will see `accepting` unset and return.
	s.jobMu.Lock()
	s.accepting = false
	s.jobMu.Unlock()

	return &s.wg, nil
}

// scheduledRun is the cron job. It does nothing once the server has been stopped.
func (s *AuditRelayServer) scheduledRun() {
	s.jobMu.Lock()
	if !s.accepting {
		s.jobMu.Unlock()
		return
	}
	s.wg.Add(1)
	s.jobMu.Unlock()
	defer s.wg.Done()

	if _, err := s.RelayOnce(); err != nil {
		log.Errorln(err)
	}
}

// RelayOnce publishes one batch of unpublished audit records and returns how many were published.
func (s *AuditRelayServer) RelayOnce() (int, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	records, err := db.ListUnpublishedAuditRecords(s.BatchSize, s.ServiceInfo.DB)
	if err != nil {
		return 0, err
	}

	published := 0
	for i := range records {
		record := &records[i]
		body, err := encodeAuditMessage(record)
		if err != nil {
			return published, err
		}

		messageID := sqlmodel.FormatAuditRecordID(record.ID)
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err = s.Publisher.Publish(ctx, s.RoutingKey, messageID, body)
		cancel()
		if err != nil {
			return published, errors.Wrapf(err, "无法发布审计记录 %v", messageID)
		}

		if err = db.MarkAuditRecordPublished(record.ID, s.now(), s.ServiceInfo.DB); err != nil {
			return published, err
		}
		published++
	}

	if published > 0 {
		log.Debugf("已发布 %v 条审计记录", published)
	}

	return published, nil
}

func (s *AuditRelayServer) now() time.Time {
	if s.ServiceInfo.Now == nil {
		return time.Now()
	}

	return s.ServiceInfo.Now()
}

func encodeAuditMessage(record *sqlmodel.AuditRecord) ([]byte, error) {
	detail := make(map[string]interface{})
	if record.Detail != "" {
		if err := json.Unmarshal([]byte(record.Detail), &detail); err != nil {
			return nil, errors.Wrapf(err, "无法解析审计记录 %v 的详情", record.ID)
		}
	}

	msg := common.AuditMessage{
		ID:         sqlmodel.FormatAuditRecordID(record.ID),
		EventType:  record.EventType,
		ElectionID: record.ElectionID,
		ActorType:  record.ActorType,
		Detail:     detail,
		CreatedAt:  record.CreatedAt.UTC().Format(time.RFC3339Nano),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "无法序列化审计消息")
	}

	return body, nil
}
