package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/smallbiznis/referralaudit/internal/referral/domain"
	"github.com/smallbiznis/referralaudit/internal/referral/fraud"
	"github.com/smallbiznis/referralaudit/internal/referral/profiling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sp(v string) *string { return &v }
func ip(v int) *int       { return &v }

func tp(v string) *time.Time {
	t, err := time.Parse(TimeLayout, v)
	if err != nil {
		panic(err)
	}
	return &t
}

func readCSV(t *testing.T, body string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteRecordsColumnsAndFormatting(t *testing.T) {
	recs := []domain.ReferralRecord{
		{
			ReferralDetailsID:      1,
			ReferralID:             sp("R1"),
			ReferralSource:         sp("User Sign Up"),
			ReferralSourceCategory: sp("Online"),
			ReferralAt:             tp("2024-05-10 09:00:00"),
			ReferrerName:           sp("John, Roe"),
			ReferralStatus:         sp("Berhasil"),
			NumRewardDays:          ip(10),
			TransactionAt:          tp("2024-05-11 09:00:00"),
			IsBusinessLogicValid:   true,
		},
		{
			ReferralDetailsID: 2,
			ReferralID:        sp("R2"),
			FraudReason:       sp(fraud.ReasonRewardNotDisbursed),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, recs))

	rows := readCSV(t, buf.String())
	require.Len(t, rows, 3)
	assert.Equal(t, RecordHeader, rows[0])
	require.Len(t, rows[1], 23)

	col := func(row []string, name string) string {
		for i, h := range RecordHeader {
			if h == name {
				return row[i]
			}
		}
		t.Fatalf("unknown column %s", name)
		return ""
	}

	assert.Equal(t, "1", col(rows[1], "referral_details_id"))
	assert.Equal(t, "2024-05-10 09:00:00", col(rows[1], "referral_at"))
	assert.Equal(t, "John, Roe", col(rows[1], "referrer_name"))
	assert.Equal(t, "10", col(rows[1], "num_reward_days"))
	assert.Equal(t, "TRUE", col(rows[1], "is_business_logic_valid"))
	assert.Equal(t, "", col(rows[1], "fraud_reason"))
	assert.Equal(t, "", col(rows[1], "updated_at"))

	assert.Equal(t, "", col(rows[2], "num_reward_days"))
	assert.Equal(t, "FALSE", col(rows[2], "is_business_logic_valid"))
	assert.Equal(t, fraud.ReasonRewardNotDisbursed, col(rows[2], "fraud_reason"))
}

func TestRecordHeaderOrder(t *testing.T) {
	require.Len(t, RecordHeader, 23)
	assert.Equal(t, "referral_details_id", RecordHeader[0])
	assert.Equal(t, "num_reward_days", RecordHeader[13])
	assert.Equal(t, "fraud_reason", RecordHeader[22])
}

func TestWriteProfile(t *testing.T) {
	profiles := []profiling.ColumnProfile{
		{
			Table:          domain.TableRewards,
			Column:         "reward_value",
			DataType:       profiling.TypeText,
			TotalRows:      6,
			NullCount:      1,
			NullPercentage: 16.67,
			DistinctCount:  4,
			SampleValues:   []string{"10 days", "20 days"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteProfile(&buf, profiles))

	rows := readCSV(t, buf.String())
	require.Len(t, rows, 2)
	assert.Equal(t, ProfileHeader, rows[0])
	assert.Equal(t, []string{"referral_rewards", "reward_value", "text", "6", "1", "16.67", "4", "10 days, 20 days"}, rows[1])
}

func TestRenderSummaryPDF(t *testing.T) {
	recs := []domain.ReferralRecord{
		{ReferralID: sp("R1"), IsBusinessLogicValid: true},
		{ReferralID: sp("R2"), NumRewardDays: ip(3)},
	}
	summary := fraud.NewEngine().Apply(recs)

	out, err := RenderSummaryPDF(SummaryData{
		RunID:       "1790000000000000000",
		GeneratedAt: time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC),
		Source:      "csv",
		Summary:     summary,
		Records:     recs,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
