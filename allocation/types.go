package allocation

import (
	"github.com/holiman/uint256"

	"github.com/bitfsorg/libvibe-go/account"
)

// TotalBps is the sum every allocation's shares must reach.
const TotalBps = 10_000

// Share assigns a fraction of the total, in basis points, to a recipient.
type Share struct {
	Recipient account.Address
	Bps       uint16
}

// Grant is the resolved amount a recipient receives.
type Grant struct {
	Recipient account.Address
	Amount    uint256.Int
}

// Genesis share of each named recipient.
const (
	TreasuryBps   = 2_000
	StakingBps    = 1_000
	FairLaunchBps = 5_000
	InfluencerBps = 1_000
	TeamBps       = 1_000
)

// Plan names the five genesis recipients.
type Plan struct {
	Treasury   account.Address `yaml:"treasury"`
	Staking    account.Address `yaml:"staking"`
	FairLaunch account.Address `yaml:"fair_launch"`
	Influencer account.Address `yaml:"influencer"`
	Team       account.Address `yaml:"team"`
}

// Shares returns the plan as a share list. Team comes last and absorbs the
// rounding remainder.
func (p Plan) Shares() []Share {
	return []Share{
		{Recipient: p.Treasury, Bps: TreasuryBps},
		{Recipient: p.Staking, Bps: StakingBps},
		{Recipient: p.FairLaunch, Bps: FairLaunchBps},
		{Recipient: p.Influencer, Bps: InfluencerBps},
		{Recipient: p.Team, Bps: TeamBps},
	}
}

// Recipients returns the distinct recipient addresses in plan order.
func (p Plan) Recipients() []account.Address {
	seen := make(map[account.Address]bool, 5)
	var out []account.Address
	for _, s := range p.Shares() {
		if !seen[s.Recipient] {
			seen[s.Recipient] = true
			out = append(out, s.Recipient)
		}
	}
	return out
}
