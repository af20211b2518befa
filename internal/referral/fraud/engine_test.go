package fraud

import (
	"testing"
	"time"

	"github.com/smallbiznis/referralaudit/internal/referral/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sp(v string) *string { return &v }
func ip(v int) *int       { return &v }

func tp(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 10, 0, 0, 0, time.UTC)
	return &t
}

// settled is a referral that passes every check.
func settled() domain.ReferralRecord {
	return domain.ReferralRecord{
		ReferralID:        sp("r-1"),
		ReferralStatus:    sp(domain.StatusBerhasil),
		NumRewardDays:     ip(10),
		IsRewardGranted:   true,
		TransactionID:     sp("t-1"),
		TransactionStatus: sp(domain.TransactionPaid),
		ReferralAt:        tp(2024, time.May, 10),
		TransactionAt:     tp(2024, time.May, 11),
	}
}

func TestEachRuleFiresOnItsOwnFixture(t *testing.T) {
	cases := []struct {
		name string
		rec  domain.ReferralRecord
		want string
	}{
		{
			name: "reward without success",
			rec:  domain.ReferralRecord{NumRewardDays: ip(5), ReferralStatus: sp(domain.StatusMenunggu)},
			want: ReasonRewardWithoutSuccess,
		},
		{
			name: "reward without transaction",
			rec:  domain.ReferralRecord{NumRewardDays: ip(5), ReferralStatus: sp(domain.StatusBerhasil)},
			want: ReasonRewardWithoutTransaction,
		},
		{
			name: "paid transaction without reward",
			rec:  domain.ReferralRecord{TransactionID: sp("t-1"), TransactionStatus: sp(domain.TransactionPaid)},
			want: ReasonPaidWithoutReward,
		},
		{
			name: "success without reward",
			rec:  domain.ReferralRecord{ReferralStatus: sp(domain.StatusBerhasil), NumRewardDays: ip(0)},
			want: ReasonSuccessWithoutReward,
		},
		{
			name: "transaction before referral",
			rec: domain.ReferralRecord{
				TransactionID:     sp("t-1"),
				TransactionStatus: sp(domain.TransactionNoTransaction),
				ReferralAt:        tp(2024, time.May, 10),
				TransactionAt:     tp(2024, time.May, 9),
			},
			want: ReasonTransactionBeforeReferral,
		},
		{
			name: "membership expired at referral instant",
			rec: func() domain.ReferralRecord {
				rec := settled()
				rec.ReferrerMembershipExpiryAt = tp(2024, time.May, 10)
				return rec
			}(),
			want: ReasonExpiredMembership,
		},
		{
			name: "deleted account",
			rec: func() domain.ReferralRecord {
				rec := settled()
				rec.ReferrerIsDeleted = true
				return rec
			}(),
			want: ReasonDeletedAccount,
		},
		{
			name: "different month",
			rec: domain.ReferralRecord{
				TransactionID:     sp("t-1"),
				TransactionStatus: sp(domain.TransactionNoTransaction),
				ReferralAt:        tp(2024, time.May, 31),
				TransactionAt:     tp(2024, time.June, 1),
			},
			want: ReasonDifferentMonth,
		},
		{
			name: "different year same month",
			rec: domain.ReferralRecord{
				ReferralAt:    tp(2023, time.May, 10),
				TransactionAt: tp(2024, time.May, 10),
			},
			want: ReasonDifferentMonth,
		},
		{
			name: "reward not disbursed",
			rec: func() domain.ReferralRecord {
				rec := settled()
				rec.IsRewardGranted = false
				return rec
			}(),
			want: ReasonRewardNotDisbursed,
		},
	}

	engine := NewEngine()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verdict := engine.Evaluate(&tc.rec)
			require.False(t, verdict.Valid())
			assert.Equal(t, tc.want, *verdict.Reason())
		})
	}
}

func TestSettledReferralIsValid(t *testing.T) {
	rec := settled()
	expiry := tp(2025, time.January, 1)
	rec.ReferrerMembershipExpiryAt = expiry

	verdict := NewEngine().Evaluate(&rec)

	assert.True(t, verdict.Valid())
	assert.Nil(t, verdict.Reason())
}

func TestEmptyRecordIsValid(t *testing.T) {
	verdict := NewEngine().Evaluate(&domain.ReferralRecord{})
	assert.True(t, verdict.Valid())
}

func TestRulePriority(t *testing.T) {
	engine := NewEngine()

	// matches reward-without-success and deleted-account
	rec := domain.ReferralRecord{
		NumRewardDays:     ip(5),
		ReferralStatus:    sp(domain.StatusTidakBerhasil),
		ReferrerIsDeleted: true,
	}
	assert.Equal(t, ReasonRewardWithoutSuccess, *engine.Evaluate(&rec).Reason())

	// matches transaction-before-referral and different-month
	rec = domain.ReferralRecord{
		ReferralAt:    tp(2024, time.June, 2),
		TransactionAt: tp(2024, time.May, 30),
	}
	assert.Equal(t, ReasonTransactionBeforeReferral, *engine.Evaluate(&rec).Reason())

	// matches paid-without-reward and success-without-reward
	rec = domain.ReferralRecord{
		ReferralStatus:    sp(domain.StatusBerhasil),
		TransactionID:     sp("t-1"),
		TransactionStatus: sp(domain.TransactionPaid),
	}
	assert.Equal(t, ReasonPaidWithoutReward, *engine.Evaluate(&rec).Reason())
}

func TestAbsentFieldsNeverMatch(t *testing.T) {
	rec := domain.ReferralRecord{
		NumRewardDays:              ip(5),
		ReferralStatus:             sp(domain.StatusBerhasil),
		TransactionID:              sp("t-1"),
		IsRewardGranted:            true,
		ReferrerMembershipExpiryAt: tp(2020, time.January, 1),
	}

	// expiry cannot be compared without a referral instant
	assert.True(t, NewEngine().Evaluate(&rec).Valid())
}

func TestApplySetsVerdictsAndSummary(t *testing.T) {
	notDisbursed := settled()
	notDisbursed.IsRewardGranted = false

	recs := []domain.ReferralRecord{
		settled(),
		notDisbursed,
		{NumRewardDays: ip(1)},
	}

	summary := NewEngine().Apply(recs)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Valid)
	assert.Equal(t, 2, summary.Flagged)
	require.Len(t, summary.ByRule, 9)
	assert.Equal(t, 1, summary.ByRule[0].Count)
	assert.Equal(t, 1, summary.ByRule[8].Count)

	for _, rec := range recs {
		assert.Equal(t, rec.FraudReason == nil, rec.IsBusinessLogicValid)
	}
	assert.Equal(t, ReasonRewardNotDisbursed, *recs[1].FraudReason)
}

func TestDefaultRulesCatalog(t *testing.T) {
	rules := DefaultRules()
	require.Len(t, rules, 9)

	seen := map[string]bool{}
	for _, rule := range rules {
		assert.NotEmpty(t, rule.Code)
		assert.NotEmpty(t, rule.Description)
		assert.NotEmpty(t, rule.Action)
		assert.False(t, seen[rule.Code], "duplicate code %s", rule.Code)
		seen[rule.Code] = true
	}
	assert.Equal(t, "reward-without-success", rules[0].Code)
	assert.Equal(t, "reward-not-granted", rules[8].Code)
}

func TestCustomRuleOrder(t *testing.T) {
	rules := DefaultRules()
	engine := NewEngine(rules[6], rules[0])

	rec := domain.ReferralRecord{
		NumRewardDays:     ip(5),
		ReferralStatus:    sp(domain.StatusMenunggu),
		ReferrerIsDeleted: true,
	}
	assert.Equal(t, ReasonDeletedAccount, *engine.Evaluate(&rec).Reason())
	assert.Len(t, engine.Rules(), 2)
}
