package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smallbiznis/referralaudit/internal/config"
	"github.com/smallbiznis/referralaudit/internal/referral/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixtures = map[string]string{
	"lead_log(in).csv": "id,lead_id,source_category,preferred_location,timezone_location,current_status,created_at\n" +
		"1,L1,Offline,Jakarta,Asia/Jakarta,New,2024-05-01 08:00:00\n",
	"user_referrals(in).csv": "\ufeffreferral_id,referral_source,referral_at,referrer_id,referee_id,referee_name,referee_phone,referral_reward_id,transaction_id,user_referral_status_id,updated_at\n" +
		"R1,User Sign Up,2024-05-10 02:00:00,U1,L1,jane doe,0811,RW1,T1,2,2024-05-12 02:00:00\n" +
		"R2,Lead,null,U1,L1,,0812,,,1,\n",
	"user_referral_logs(in).csv": "id,user_referral_id,source_transaction_id,created_at,is_reward_granted\n" +
		"1,R1,T1,2024-05-12 02:00:00,TRUE\n",
	"user_logs(in).csv": "id,user_id,name,phone_number,homeclub,timezone_homeclub,membership_expired_date,is_deleted\n" +
		"1,U1,john roe,0800,Senayan,Asia/Jakarta,2025-01-01,FALSE\n",
	"user_referral_statuses(in).csv": "id,description,created_at\n1,Menunggu,2024-01-01\n2,Berhasil,2024-01-01\n",
	"referral_rewards(in).csv":       "id,reward_value,reward_type,created_at\nRW1,10 days,membership,2024-01-01\n",
	"paid_transactions(in).csv": "transaction_id,transaction_status,transaction_at,transaction_location,transaction_type,timezone_transaction\n" +
		"T1,PAID,2024-05-11 02:00:00,Senayan,NEW,Asia/Jakarta\n",
}

func writeFixtures(t *testing.T, skip string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range fixtures {
		if name == skip {
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestCSVSourceLoadsEveryTable(t *testing.T) {
	dir := writeFixtures(t, "")
	src := NewCSVSource(dir, config.DefaultPipelineConfig().Inputs, zap.NewNop())

	tables, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tables.Missing())

	require.Len(t, tables.Referrals, 2)
	require.NotNil(t, tables.Referrals[0].ReferralID)
	assert.Equal(t, "R1", *tables.Referrals[0].ReferralID, "byte order mark is stripped from the header")
	assert.Equal(t, "null", *tables.Referrals[1].ReferralAt, "values are kept verbatim")
	assert.Equal(t, "", *tables.Referrals[1].RefereeName)

	assert.Len(t, tables.Statuses, 2)
	assert.Len(t, tables.Leads, 1)
	assert.Len(t, tables.Transactions, 1)
}

func TestCSVSourceMissingFile(t *testing.T) {
	dir := writeFixtures(t, "paid_transactions(in).csv")
	src := NewCSVSource(dir, config.DefaultPipelineConfig().Inputs, zap.NewNop())

	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingTable))
	assert.Contains(t, err.Error(), domain.TableTransactions)
}

func TestDecodeCSVHeaderOnlyIsEmptyTable(t *testing.T) {
	rows, err := decodeCSV[domain.ReferralStatus](strings.NewReader("id,description,created_at\n"))
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestDecodeCSVEmptyInputIsUnreadable(t *testing.T) {
	_, err := decodeCSV[domain.ReferralStatus](strings.NewReader(""))
	assert.Error(t, err)
}

func TestDecodeCSVToleratesShortRowsAndMissingColumns(t *testing.T) {
	input := " description , id\nBerhasil\nMenunggu,1\n"

	rows, err := decodeCSV[domain.ReferralStatus](strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Nil(t, rows[0].ID)
	assert.Equal(t, "Berhasil", *rows[0].Description)
	assert.Equal(t, "1", *rows[1].ID)
	assert.Nil(t, rows[1].CreatedAt)
}

func TestCSVSourceHonoursCancelledContext(t *testing.T) {
	dir := writeFixtures(t, "")
	src := NewCSVSource(dir, config.DefaultPipelineConfig().Inputs, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
