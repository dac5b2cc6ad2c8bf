package jobtype

import "strings"

// Type is one of the canonical job categories a task can be filed under.
// Reporting and filtering in the practice app only understand these values.
type Type string

const (
	TaxReturn           Type = "Tax Return"
	BAS                 Type = "BAS"
	Advisory            Type = "Advisory"
	FinancialStatements Type = "Financial Statements"
	Audit               Type = "Audit"
	Bookkeeping         Type = "Bookkeeping"
	Payroll             Type = "Payroll"
	SMSF                Type = "SMSF"
	CompanyReturn       Type = "Company Return"
	TrustReturn         Type = "Trust Return"
	PartnershipReturn   Type = "Partnership Return"
	FBT                 Type = "FBT"
	Other               Type = "Other"
)

// category groups the spoken phrases that mean the same job type.
type category struct {
	canonical Type
	aliases   []string
}

// categories is the alias table. The order matters: the prefix fallback
// walks it top to bottom and stops at the first hit, so a short input like
// "t" resolves to Tax Return because that category is declared first.
var categories = []category{
	{TaxReturn, []string{
		"tax return", "tax", "itr", "income tax", "income tax return",
		"individual", "individual tax return", "personal tax", "personal return",
	}},
	{BAS, []string{
		"bas", "business activity statement", "activity statement",
		"ias", "gst", "gst return",
	}},
	{Advisory, []string{
		"advisory", "advice", "consulting", "consult", "meeting", "tax planning",
	}},
	{FinancialStatements, []string{
		"financial statements", "financials", "fs", "accounts",
		"annual accounts", "year end",
	}},
	{Audit, []string{
		"audit", "auditing", "smsf audit", "trust account audit",
	}},
	{Bookkeeping, []string{
		"bookkeeping", "book keeping", "books", "bank reconciliation", "reconciliation",
	}},
	{Payroll, []string{
		"payroll", "pay run", "payrun", "wages", "stp", "single touch payroll",
		"super guarantee", "sgc",
	}},
	{SMSF, []string{
		"smsf", "super fund", "self managed super fund", "self-managed super fund",
	}},
	{CompanyReturn, []string{
		"company return", "company tax return", "company", "ctr",
	}},
	{TrustReturn, []string{
		"trust return", "trust tax return", "trust", "family trust",
	}},
	{PartnershipReturn, []string{
		"partnership return", "partnership tax return", "partnership",
	}},
	{FBT, []string{
		"fbt", "fbt return", "fringe benefits tax", "fringe benefits",
	}},
	{Other, []string{
		"other", "misc", "miscellaneous",
	}},
}

// exact is the lookup for the first, precise matching tier.
var exact = func() map[string]Type {
	m := make(map[string]Type)
	for _, c := range categories {
		for _, a := range c.aliases {
			m[a] = c.canonical
		}
	}
	return m
}()

// Normalize maps dictated job-type text to a canonical Type.
//
// The boolean reports whether the input was recognised. Unrecognised or
// empty input yields Other with false; it is never an error, the caller
// decides how to surface the original wording.
func Normalize(raw string) (Type, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return Other, false
	}

	if t, ok := exact[key]; ok {
		return t, true
	}

	for _, c := range categories {
		for _, a := range c.aliases {
			if strings.HasPrefix(a, key) || strings.HasPrefix(key, a) {
				return c.canonical, true
			}
		}
	}

	return Other, false
}

// All returns the canonical types in declaration order.
func All() []Type {
	out := make([]Type, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.canonical)
	}
	return out
}
