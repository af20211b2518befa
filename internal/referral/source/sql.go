package source

import (
	"context"
	"fmt"

	"github.com/smallbiznis/referralaudit/internal/referral/domain"
	"github.com/smallbiznis/referralaudit/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SQLSource reads the extracts from database tables carrying the extract names
// (lead_log, user_referrals, ...).
type SQLSource struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewSQLSource(conn *gorm.DB, log *zap.Logger) *SQLSource {
	return &SQLSource{
		db:  conn,
		log: log.Named("referral.source.sql"),
	}
}

func (s *SQLSource) Load(ctx context.Context) (domain.Tables, error) {
	var (
		t   domain.Tables
		err error
	)
	if t.Leads, err = queryTable[domain.LeadLog](ctx, s, domain.TableLeads); err != nil {
		return domain.Tables{}, err
	}
	if t.Referrals, err = queryTable[domain.UserReferral](ctx, s, domain.TableReferrals); err != nil {
		return domain.Tables{}, err
	}
	if t.ReferralLogs, err = queryTable[domain.UserReferralLog](ctx, s, domain.TableReferralLogs); err != nil {
		return domain.Tables{}, err
	}
	if t.Users, err = queryTable[domain.UserLog](ctx, s, domain.TableUsers); err != nil {
		return domain.Tables{}, err
	}
	if t.Statuses, err = queryTable[domain.ReferralStatus](ctx, s, domain.TableStatuses); err != nil {
		return domain.Tables{}, err
	}
	if t.Rewards, err = queryTable[domain.ReferralReward](ctx, s, domain.TableRewards); err != nil {
		return domain.Tables{}, err
	}
	if t.Transactions, err = queryTable[domain.PaidTransaction](ctx, s, domain.TableTransactions); err != nil {
		return domain.Tables{}, err
	}
	return t, nil
}

func queryTable[T any](ctx context.Context, s *SQLSource, table string) ([]T, error) {
	rows := make([]T, 0)
	err := s.db.WithContext(ctx).Table(table).Find(&rows).Error
	if err != nil {
		if db.IsMissingTableErr(err) {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrMissingTable, table, err)
		}
		return nil, fmt.Errorf("load %s: %w", table, err)
	}

	s.log.Info("table loaded",
		zap.String("table", table),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}
