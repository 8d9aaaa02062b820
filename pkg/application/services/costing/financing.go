package costing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bidengine/pkg/domain/entities"
	"github.com/vsinha/bidengine/pkg/domain/services"
)

// DefaultCreditDays applies to unknown clients and unrecognised terms
const DefaultCreditDays = 30

// Loyalty tier margin adjustments
var (
	GoldLoyaltyAdjustment   = decimal.RequireFromString("-0.03")
	SilverLoyaltyAdjustment = decimal.RequireFromString("-0.015")
)

// FinancingCost is the cost of carrying the client's credit period
type FinancingCost struct {
	Client            string
	CreditDays        int
	LoyaltyAdjustment decimal.Decimal
	Interest          decimal.Decimal
	Rationale         []string
}

// CreditDays reads the credit period from payment terms text
func CreditDays(terms string) int {
	switch {
	case strings.Contains(terms, "90"):
		return 90
	case strings.Contains(terms, "60"):
		return 60
	case strings.Contains(strings.ToLower(terms), "advance"):
		return 0
	}
	return DefaultCreditDays
}

// LoyaltyAdjustment returns the margin adjustment for a loyalty tier
func LoyaltyAdjustment(status string) decimal.Decimal {
	switch strings.TrimSpace(status) {
	case entities.LoyaltyGold:
		return GoldLoyaltyAdjustment
	case entities.LoyaltySilver:
		return SilverLoyaltyAdjustment
	}
	return decimal.Zero
}

// Financing prices the credit period on costBase. An unknown client falls
// back to the RFP's own payment terms hint, then to 30 days.
func (c *Composer) Financing(clientName, termsHint string, costBase decimal.Decimal) FinancingCost {
	fc := FinancingCost{
		CreditDays:        DefaultCreditDays,
		LoyaltyAdjustment: decimal.Zero,
	}

	if client := services.FindClient(c.ref.GetClients(), clientName); client != nil {
		fc.Client = client.ClientName
		fc.CreditDays = CreditDays(client.PaymentTerms)
		fc.LoyaltyAdjustment = LoyaltyAdjustment(client.LoyaltyStatus)
		fc.Rationale = append(fc.Rationale, fmt.Sprintf("client %s: %q, %s", client.ClientName, client.PaymentTerms, client.LoyaltyStatus))
	} else if strings.TrimSpace(termsHint) != "" {
		fc.CreditDays = CreditDays(termsHint)
		fc.Rationale = append(fc.Rationale, fmt.Sprintf("unknown client, terms from RFP: %q", termsHint))
	} else {
		fc.Rationale = append(fc.Rationale, fmt.Sprintf("unknown client, default %d days", DefaultCreditDays))
	}

	fc.Interest = costBase.
		Mul(dec(c.cfg.Financial.AnnualCapitalRate)).
		Mul(decimal.NewFromInt(int64(fc.CreditDays))).
		Div(decimal.NewFromInt(365))
	if fc.CreditDays > 0 {
		fc.Rationale = append(fc.Rationale, fmt.Sprintf("credit cost (%d days): %s", fc.CreditDays, money(fc.Interest)))
	}
	if !fc.LoyaltyAdjustment.IsZero() {
		fc.Rationale = append(fc.Rationale, fmt.Sprintf("loyalty adjustment: %s%%", fc.LoyaltyAdjustment.Mul(decimal.NewFromInt(100)).String()))
	}
	return fc
}
