// Package customers manages the customer book and loyalty tiers.
package customers

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
)

// Tier is the loyalty level derived from points.
type Tier string

const (
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
	TierVIP    Tier = "vip"
)

// TierFor maps loyalty points to a tier.
func TierFor(points int64) Tier {
	switch {
	case points >= 200:
		return TierVIP
	case points >= 100:
		return TierGold
	case points >= 50:
		return TierSilver
	default:
		return TierBronze
	}
}

var validate = validator.New()

// Customer is an entry of the customer book.
type Customer struct {
	ID             id.ID       `db:"id" json:"id"`
	OwnerID        id.ID       `db:"owner_id" json:"ownerId"`
	Name           string      `db:"name" json:"name"`
	Email          *string     `db:"email" json:"email,omitempty"`
	Phone          *string     `db:"phone" json:"phone,omitempty"`
	Address        *string     `db:"address" json:"address,omitempty"`
	TotalPurchases types.Money `db:"total_purchases" json:"totalPurchases"`
	LastPurchase   *time.Time  `db:"last_purchase" json:"lastPurchase,omitempty"`
	LoyaltyPoints  int64       `db:"loyalty_points" json:"loyaltyPoints"`
	CreatedAt      time.Time   `db:"created_at" json:"createdAt"`
}

// Tier returns the customer's current loyalty tier.
func (c *Customer) Tier() Tier {
	return TierFor(c.LoyaltyPoints)
}

// Validate checks customer fields.
func (c *Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if c.Email != nil {
		if err := validate.Var(*c.Email, "email"); err != nil {
			return apperror.NewValidation("invalid email").WithDetail("field", "email")
		}
	}
	if c.TotalPurchases.IsNegative() || c.LoyaltyPoints < 0 {
		return apperror.NewValidation("purchase totals cannot be negative")
	}
	return nil
}

// DefaultPhoneRegion is used for numbers written without a country code.
const DefaultPhoneRegion = "US"

// NormalizePhone parses raw, reading national numbers as region, and returns
// it in E.164 form.
func NormalizePhone(raw, region string) (string, error) {
	p, err := libphonenumber.Parse(raw, region)
	if err != nil || !libphonenumber.IsValidNumber(p) {
		return "", apperror.NewValidation("invalid phone number").
			WithDetail("field", "phone").
			WithDetail("region", region)
	}
	return libphonenumber.Format(p, libphonenumber.E164), nil
}

// PointsFor returns loyalty points earned for amount: one per whole currency unit.
func PointsFor(amount types.Money) int64 {
	if !amount.IsPositive() {
		return 0
	}
	return amount.Floor().IntPart()
}

// RecordPurchase books a finalized sale against the customer.
func (c *Customer) RecordPurchase(amount types.Money, at time.Time) {
	c.TotalPurchases = c.TotalPurchases.Add(amount)
	if c.LastPurchase == nil || at.After(*c.LastPurchase) {
		t := at
		c.LastPurchase = &t
	}
	c.LoyaltyPoints += PointsFor(amount)
}

// Stats summarizes the customer book.
type Stats struct {
	Total          int          `json:"total"`
	VIP            int          `json:"vip"`
	TotalPoints    int64        `json:"totalPoints"`
	TotalPurchases types.Money  `json:"totalPurchases"`
	ByTier         map[Tier]int `json:"byTier"`
}

// ComputeStats aggregates customers.
func ComputeStats(list []Customer) Stats {
	s := Stats{
		Total:          len(list),
		TotalPurchases: types.Zero(),
		ByTier:         map[Tier]int{TierBronze: 0, TierSilver: 0, TierGold: 0, TierVIP: 0},
	}
	for i := range list {
		c := &list[i]
		tier := c.Tier()
		s.ByTier[tier]++
		if tier == TierVIP {
			s.VIP++
		}
		s.TotalPoints += c.LoyaltyPoints
		s.TotalPurchases = s.TotalPurchases.Add(c.TotalPurchases)
	}
	return s
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
