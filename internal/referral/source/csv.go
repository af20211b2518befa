package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/smallbiznis/referralaudit/internal/config"
	"github.com/smallbiznis/referralaudit/internal/referral/domain"
	"go.uber.org/zap"
)

// CSVSource reads the extracts from a directory of CSV files with a header row.
type CSVSource struct {
	dir   string
	files config.InputFiles
	log   *zap.Logger
}

func NewCSVSource(dir string, files config.InputFiles, log *zap.Logger) *CSVSource {
	return &CSVSource{
		dir:   dir,
		files: files,
		log:   log.Named("referral.source.csv"),
	}
}

func (s *CSVSource) Load(ctx context.Context) (domain.Tables, error) {
	var (
		t   domain.Tables
		err error
	)
	if t.Leads, err = readTable[domain.LeadLog](ctx, s, domain.TableLeads, s.files.Leads); err != nil {
		return domain.Tables{}, err
	}
	if t.Referrals, err = readTable[domain.UserReferral](ctx, s, domain.TableReferrals, s.files.Referrals); err != nil {
		return domain.Tables{}, err
	}
	if t.ReferralLogs, err = readTable[domain.UserReferralLog](ctx, s, domain.TableReferralLogs, s.files.ReferralLogs); err != nil {
		return domain.Tables{}, err
	}
	if t.Users, err = readTable[domain.UserLog](ctx, s, domain.TableUsers, s.files.Users); err != nil {
		return domain.Tables{}, err
	}
	if t.Statuses, err = readTable[domain.ReferralStatus](ctx, s, domain.TableStatuses, s.files.Statuses); err != nil {
		return domain.Tables{}, err
	}
	if t.Rewards, err = readTable[domain.ReferralReward](ctx, s, domain.TableRewards, s.files.Rewards); err != nil {
		return domain.Tables{}, err
	}
	if t.Transactions, err = readTable[domain.PaidTransaction](ctx, s, domain.TableTransactions, s.files.Transactions); err != nil {
		return domain.Tables{}, err
	}
	return t, nil
}

func readTable[T any](ctx context.Context, s *CSVSource, table, file string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, file)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%s): %v", domain.ErrMissingTable, table, path, err)
	}
	defer f.Close()

	rows, err := decodeCSV[T](f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%s): %v", domain.ErrMissingTable, table, path, err)
	}

	s.log.Info("table loaded",
		zap.String("table", table),
		zap.String("path", path),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

// decodeCSV maps each record onto T by header name. An input without a header
// row is unreadable; an input with only a header is an empty table.
func decodeCSV[T any](r io.Reader) ([]T, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file")
		}
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	decoder, err := domain.NewRowDecoder[T](header)
	if err != nil {
		return nil, err
	}

	rows := make([]T, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, decoder.Decode(record))
	}
	return rows, nil
}
