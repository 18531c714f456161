package govt

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	domain "github.com/toolverse-app/toolverse/internal/domain/tools"
)

// Processor implements the India-specific document and finance tools.
// PAN validation and the calculators are pure; Aadhaar masking and the
// photo tools stage output files.
type Processor struct {
	store domain.ArtifactStore
}

func New(store domain.ArtifactStore) *Processor {
	return &Processor{store: store}
}

var panRe = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// Fourth PAN character encodes the holder category.
var panHolderTypes = map[byte]string{
	'P': "Individual",
	'C': "Company",
	'H': "Hindu Undivided Family",
	'F': "Firm",
	'A': "Association of Persons",
	'T': "Trust",
	'B': "Body of Individuals",
	'L': "Local Authority",
	'J': "Artificial Juridical Person",
	'G': "Government",
}

// ValidatePAN checks the PAN format and classifies the holder from the
// fourth character. Input is upper-cased before matching and the
// result echoes the upper-cased value. Pattern match only, not a
// registry lookup.
func (p *Processor) ValidatePAN(_ context.Context, _ []domain.Upload, opts domain.Options) (*domain.Result, error) {
	pan := strings.ToUpper(strings.TrimSpace(opts.String("panNumber", "")))
	valid := panRe.MatchString(pan)

	data := map[string]any{
		"pan":     pan,
		"isValid": valid,
		"format":  "AAAAA9999A",
	}
	msg := "Invalid PAN format"
	if valid {
		msg = "Valid PAN number"
		holder := panHolderTypes[pan[3]]
		if holder == "" {
			holder = "Unknown"
		}
		data["type"] = holder
	}
	return &domain.Result{Success: true, Message: msg, Data: data}, nil
}

// CalculateGST splits a base amount by rate into GST plus an equal
// CGST/SGST half. Derived amounts are two-decimal currency strings.
func (p *Processor) CalculateGST(_ context.Context, _ []domain.Upload, opts domain.Options) (*domain.Result, error) {
	amount := opts.Float("amount", 0)
	rate := opts.Float("gstRate", 0)

	gst := amount * rate / 100
	total := amount + gst

	data := map[string]any{
		"baseAmount":  amount,
		"gstRate":     rate,
		"gstAmount":   money(gst),
		"totalAmount": money(total),
		"breakdown": map[string]any{
			"cgst": money(gst / 2),
			"sgst": money(gst / 2),
		},
	}
	return &domain.Result{Success: true, Message: "GST calculated", Data: data}, nil
}

// CalculateIncomeTax applies the old-regime slabs with the senior
// citizen exemption and 4% cess.
func (p *Processor) CalculateIncomeTax(_ context.Context, _ []domain.Upload, opts domain.Options) (*domain.Result, error) {
	income := opts.Float("income", 0)
	age := opts.Int("age", 0)

	exemption := 250000.0
	if age >= 60 {
		exemption = 300000.0
	}

	tax := 0.0
	if income > exemption {
		taxable := income - exemption
		switch {
		case taxable <= 500000:
			tax = taxable * 0.05
		case taxable <= 1000000:
			tax = 25000 + (taxable-500000)*0.20
		default:
			tax = 125000 + (taxable-1000000)*0.30
		}
	}

	data := map[string]any{
		"grossIncome":   income,
		"exemption":     exemption,
		"taxableIncome": math.Max(0, income-exemption),
		"incomeTax":     money(tax),
		"cess":          money(tax * 0.04),
		"netIncome":     money(income - tax),
	}
	return &domain.Result{Success: true, Message: "Income tax calculated", Data: data}, nil
}

// CalculateEPF projects provident fund maturity at the 12% + 12%
// contribution split and 8.5% interest.
func (p *Processor) CalculateEPF(_ context.Context, _ []domain.Upload, opts domain.Options) (*domain.Result, error) {
	basic := opts.Float("basicSalary", 0)
	years := opts.Float("years", 0)

	employee := basic * 0.12
	employer := basic * 0.12
	monthly := employee + employer
	annual := monthly * 12
	maturity := annual * years * 1.085

	data := map[string]any{
		"basicSalary":          basic,
		"employeeContribution": money(employee),
		"employerContribution": money(employer),
		"totalMonthly":         money(monthly),
		"totalAnnual":          money(annual),
		"maturityAmount":       money(maturity),
		"interestRate":         "8.5%",
	}
	return &domain.Result{Success: true, Message: "EPF calculated", Data: data}, nil
}

// CalculateEMI computes a standard reducing-balance EMI.
func (p *Processor) CalculateEMI(_ context.Context, _ []domain.Upload, opts domain.Options) (*domain.Result, error) {
	principal := opts.Float("principal", 0)
	rate := opts.Float("rate", 0)
	tenure := opts.Float("tenure", 0) // months

	monthlyRate := rate / (12 * 100)
	var emi float64
	if monthlyRate > 0 && tenure > 0 {
		pow := math.Pow(1+monthlyRate, tenure)
		emi = principal * monthlyRate * pow / (pow - 1)
	} else if tenure > 0 {
		emi = principal / tenure
	}
	total := emi * tenure
	interest := total - principal

	data := map[string]any{
		"principal":     principal,
		"rate":          rate,
		"tenure":        tenure,
		"emi":           money(emi),
		"totalAmount":   money(total),
		"totalInterest": money(interest),
	}
	return &domain.Result{Success: true, Message: "EMI calculated", Data: data}, nil
}

// CalculateSIP projects systematic investment returns with monthly
// compounding.
func (p *Processor) CalculateSIP(_ context.Context, _ []domain.Upload, opts domain.Options) (*domain.Result, error) {
	monthly := opts.Float("monthlyAmount", 0)
	rate := opts.Float("rate", 0)
	years := opts.Float("years", 0)

	months := years * 12
	monthlyRate := rate / (12 * 100)
	var maturity float64
	if monthlyRate > 0 {
		maturity = monthly * ((math.Pow(1+monthlyRate, months) - 1) / monthlyRate) * (1 + monthlyRate)
	} else {
		maturity = monthly * months
	}
	invested := monthly * months
	returns := maturity - invested

	data := map[string]any{
		"monthlyAmount":   monthly,
		"rate":            rate,
		"years":           years,
		"totalInvestment": money(invested),
		"maturityAmount":  money(maturity),
		"totalReturns":    money(returns),
	}
	return &domain.Result{Success: true, Message: "SIP calculated", Data: data}, nil
}

// FindIFSC fabricates a plausible IFSC entry. No registry lookup
// happens; the response is marked demo.
func (p *Processor) FindIFSC(_ context.Context, _ []domain.Upload, opts domain.Options) (*domain.Result, error) {
	bank := opts.String("bankName", "BANK")
	branch := opts.String("branch", "Main")

	prefix := strings.ToUpper(bank)
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	for len(prefix) < 4 {
		prefix += "X"
	}
	code := fmt.Sprintf("%s0%06d", prefix, rand.Intn(900000)+100000)

	data := map[string]any{
		"ifscCode":   code,
		"bankName":   bank,
		"branchName": branch,
		"city":       "Mumbai",
		"state":      "Maharashtra",
	}
	return &domain.Result{Success: true, Message: "IFSC code found", Data: data, Demo: true}, nil
}

// VerifyDocument returns a pseudo-random authenticity score. It is
// explicitly not a real verification.
func (p *Processor) VerifyDocument(_ context.Context, files []domain.Upload, _ domain.Options) (*domain.Result, error) {
	score := 75 + rand.Intn(25)
	data := map[string]any{
		"document":     files[0].OriginalName,
		"authenticity": score,
		"explanation":  "Heuristic check of format markers only; authoritative verification requires the issuing registry",
	}
	return &domain.Result{Success: true, Message: "Document analyzed", Data: data, Demo: true}, nil
}

func money(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
