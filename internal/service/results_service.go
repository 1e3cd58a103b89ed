package service

import (
	"database/sql"
	"math"
	"sort"
	"time"

	"gitee.com/czyczk/evote-ballot-engine/internal/db"
	"gitee.com/czyczk/evote-ballot-engine/internal/models/common"
	"gitee.com/czyczk/evote-ballot-engine/internal/models/sqlmodel"
	"gitee.com/czyczk/evote-ballot-engine/internal/utils/cipherutils"
	"gitee.com/czyczk/evote-ballot-engine/internal/utils/timingutils"
	"gitee.com/czyczk/evote-ballot-engine/pkg/errorcode"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ResultsService 用于统计已关闭选举的结果。
type ResultsService struct {
	ServiceInfo *Info
}

// Tally 解密选举的全部选票并按选项计票。
//
// 任何一张选票无法解密或指向未知选项都视为账本损坏，返回内部错误而不是跳过该选票。
func (s *ResultsService) Tally(electionID uint64) (*common.ElectionResults, error) {
	election, err := db.GetElection(electionID, false, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	if election.Status != sqlmodel.ElectionStatusClosed {
		return nil, errorcode.ErrorResultsNotAvailable
	}

	if len(election.EncryptionKey) == 0 {
		return nil, errorcode.ErrorEncryptionNotConfigured
	}

	optionsDB, err := db.ListElectionOptions(electionID, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	ballots, err := db.ListEncryptedBallots(electionID, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	totalVoters, err := db.CountVoters(electionID, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	tallies := make(map[uint64]*common.OptionTally, len(optionsDB))
	options := make([]common.OptionTally, len(optionsDB))
	for i, o := range optionsDB {
		options[i] = common.OptionTally{
			OptionID:     o.ID,
			Text:         o.OptionText,
			DisplayOrder: o.DisplayOrder,
		}
		tallies[o.ID] = &options[i]
	}

	stopTimer := timingutils.GetDeferrableTimingLogger("计票耗时")
	for _, b := range ballots {
		optionID, err := cipherutils.DecryptBallotChoice(election.EncryptionKey, electionID, b.Ciphertext)
		if err != nil {
			stopTimer()
			return nil, errors.Wrapf(err, "选票 %v 无法解密", b.ID)
		}

		tally, ok := tallies[optionID]
		if !ok {
			stopTimer()
			return nil, errors.Errorf("选票 %v 指向未知选项", b.ID)
		}
		tally.Votes++
	}
	stopTimer()

	for i := range options {
		options[i].Percentage = percentage(options[i].Votes, len(ballots))
	}

	sort.SliceStable(options, func(i, j int) bool {
		if options[i].Votes != options[j].Votes {
			return options[i].Votes > options[j].Votes
		}
		return options[i].DisplayOrder < options[j].DisplayOrder
	})

	log.WithField("electionId", electionID).Infoln("已完成计票")
	return &common.ElectionResults{
		ElectionID:   electionID,
		Title:        election.Title,
		TotalBallots: len(ballots),
		TotalVoters:  int(totalVoters),
		Turnout:      percentage(len(ballots), int(totalVoters)),
		Options:      options,
	}, nil
}

// Statistics 汇总选举的参与情况。选举关闭后附带按小时（UTC）统计的投票时间分布。
func (s *ResultsService) Statistics(electionID uint64) (*common.ElectionStatistics, error) {
	election, err := db.GetElection(electionID, false, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	totalVoters, err := db.CountVoters(electionID, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	totalTokens, usedTokens, err := db.CountVotingTokens(electionID, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	totalVotes, err := db.CountEncryptedBallots(electionID, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	timeline := []common.HourlyVoteCount{}
	if election.Status == sqlmodel.ElectionStatusClosed {
		castTimes, err := db.ListBallotCastTimes(electionID, s.ServiceInfo.DB)
		if err != nil {
			return nil, err
		}
		timeline = hourlyTimeline(castTimes)
	}

	return &common.ElectionStatistics{
		ElectionID: electionID,
		Election: common.ElectionSummary{
			Title:     election.Title,
			Status:    election.Status,
			CreatedAt: election.CreatedAt,
			OpenedAt:  nullTimePtr(election.OpenedAt),
			ClosedAt:  nullTimePtr(election.ClosedAt),
		},
		Statistics: common.ElectionCounters{
			TotalVoters: totalVoters,
			TotalTokens: totalTokens,
			UsedTokens:  usedTokens,
			TotalVotes:  totalVotes,
			Turnout:     percentage(int(totalVotes), int(totalVoters)),
		},
		VoteTimeline: timeline,
	}, nil
}

// hourlyTimeline counts cast times per UTC hour, in ascending order of the hour.
func hourlyTimeline(castTimes []time.Time) []common.HourlyVoteCount {
	counts := make(map[time.Time]int)
	for _, t := range castTimes {
		counts[t.UTC().Truncate(time.Hour)]++
	}

	timeline := make([]common.HourlyVoteCount, 0, len(counts))
	for hour, count := range counts {
		timeline = append(timeline, common.HourlyVoteCount{Hour: hour, Count: count})
	}

	sort.Slice(timeline, func(i, j int) bool {
		return timeline[i].Hour.Before(timeline[j].Hour)
	})

	return timeline
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}

	ret := t.Time
	return &ret
}

// percentage returns part/total as a percentage rounded to two decimals, or 0 if total is 0.
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}

	return math.Round(float64(part)*10000/float64(total)) / 100
}
