package fraud

import (
	"github.com/gosimple/slug"
	"github.com/smallbiznis/referralaudit/internal/referral/domain"
)

const (
	ReasonRewardWithoutSuccess      = "Reward granted despite non-successful status"
	ReasonRewardWithoutTransaction  = "Reward granted with no linked transaction"
	ReasonPaidWithoutReward         = "Paid transaction produced no reward"
	ReasonSuccessWithoutReward      = "Successful status but zero/absent reward"
	ReasonTransactionBeforeReferral = "Transaction recorded before referral occurred"
	ReasonExpiredMembership         = "Membership had expired before referral"
	ReasonDeletedAccount            = "Reward granted to a deleted account"
	ReasonDifferentMonth            = "Transaction and referral fall in different months"
	ReasonRewardNotDisbursed        = "Reward not actually disbursed despite successful status"
)

// Rule is one consistency check. Match must tolerate absent fields and
// report no match when the data it needs is missing.
type Rule struct {
	Code        string
	CheckType   string
	Reason      string
	Description string
	Action      string
	Match       func(*domain.ReferralRecord) bool
}

func newRule(checkType, reason, description, action string, match func(*domain.ReferralRecord) bool) Rule {
	return Rule{
		Code:        slug.Make(checkType),
		CheckType:   checkType,
		Reason:      reason,
		Description: description,
		Action:      action,
		Match:       match,
	}
}

// DefaultRules returns the referral checks in priority order.
func DefaultRules() []Rule {
	return []Rule{
		newRule("Reward Without Success", ReasonRewardWithoutSuccess,
			`A reward was assigned but the referral status is not "Berhasil" (Successful).`,
			"Review by Compliance team",
			func(r *domain.ReferralRecord) bool {
				return r.HasReward() && !r.StatusIs(domain.StatusBerhasil)
			}),
		newRule("Reward Without Transaction", ReasonRewardWithoutTransaction,
			"A reward was assigned but there is no transaction ID linked to the referral.",
			"Review by Operations team",
			func(r *domain.ReferralRecord) bool {
				return r.HasReward() && r.TransactionID == nil
			}),
		newRule("Transaction Without Reward", ReasonPaidWithoutReward,
			"A paid transaction exists but no reward was assigned to the referrer.",
			"Review by Rewards team",
			func(r *domain.ReferralRecord) bool {
				return !r.HasReward() && r.TransactionID != nil &&
					r.TransactionStatus != nil && *r.TransactionStatus == domain.TransactionPaid
			}),
		newRule("Success Without Reward", ReasonSuccessWithoutReward,
			`The referral status is "Berhasil" but the reward value is zero or null.`,
			"Review by Rewards team",
			func(r *domain.ReferralRecord) bool {
				return r.StatusIs(domain.StatusBerhasil) && !r.HasReward()
			}),
		newRule("Transaction Before Referral", ReasonTransactionBeforeReferral,
			"The transaction date is before the referral creation date (impossible scenario).",
			"Investigate - Critical issue",
			func(r *domain.ReferralRecord) bool {
				return r.ReferralAt != nil && r.TransactionAt != nil && r.TransactionAt.Before(*r.ReferralAt)
			}),
		newRule("Expired Membership", ReasonExpiredMembership,
			"The referrer's membership had expired when the referral was made.",
			"Review eligibility",
			func(r *domain.ReferralRecord) bool {
				return r.HasReward() && r.ReferrerMembershipExpiryAt != nil && r.ReferralAt != nil &&
					!r.ReferrerMembershipExpiryAt.After(*r.ReferralAt)
			}),
		newRule("Deleted Account", ReasonDeletedAccount,
			"The referrer's account has been deleted.",
			"Investigate account status",
			func(r *domain.ReferralRecord) bool {
				return r.HasReward() && r.ReferrerIsDeleted
			}),
		newRule("Different Month", ReasonDifferentMonth,
			"The transaction occurred in a different month than the referral.",
			"Review reward policy",
			func(r *domain.ReferralRecord) bool {
				if r.ReferralAt == nil || r.TransactionAt == nil {
					return false
				}
				return r.ReferralAt.Year() != r.TransactionAt.Year() || r.ReferralAt.Month() != r.TransactionAt.Month()
			}),
		newRule("Reward Not Granted", ReasonRewardNotDisbursed,
			"The reward has not been granted even though the referral is successful.",
			"Process reward distribution",
			func(r *domain.ReferralRecord) bool {
				return r.HasReward() && r.StatusIs(domain.StatusBerhasil) && !r.IsRewardGranted
			}),
	}
}
