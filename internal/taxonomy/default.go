package taxonomy

import "github.com/ts2427/breachstudy/internal/models"

// Default returns the hand-curated study taxonomy. Keyword lists are broad on
// purpose: recall is favored over precision, and phrases overlap across
// categories where a breach can legitimately be both (e.g. "credit card"
// signals PII exposure and a financial-account breach).
//
// Weights reflect the reputational and legal severity of each category:
// health data carries the heaviest weight, denial of service the lightest.
func Default() *Taxonomy {
	keywords := map[models.Category][]string{
		models.CategoryPII: {
			"social security",
			"ssn",
			"driver's license",
			"drivers license",
			"date of birth",
			"personal information",
			"personally identifiable",
			"email address",
			"phone number",
			"home address",
			"credit card",
			"passport",
		},
		models.CategoryHealth: {
			"health",
			"medical",
			"hipaa",
			"patient",
			"protected health information",
			"diagnosis",
			"prescription",
			"treatment record",
			"clinical",
			"hospital",
		},
		models.CategoryFinancial: {
			"credit card",
			"debit card",
			"bank account",
			"account number",
			"financial account",
			"payment card",
			"routing number",
			"cardholder",
			"banking information",
			"financial information",
		},
		models.CategoryIP: {
			"intellectual property",
			"trade secret",
			"proprietary",
			"source code",
			"patent",
			"confidential business",
			"research data",
		},
		models.CategoryRansomware: {
			"ransomware",
			"ransom",
			"files encrypted",
			"extortion",
			"lockbit",
			"ryuk",
			"wannacry",
			"revil",
			"cryptolocker",
		},
		models.CategoryNationState: {
			"nation state",
			"nation-state",
			"state sponsored",
			"state-sponsored",
			"advanced persistent threat",
			"foreign government",
			"espionage",
			"foreign intelligence",
		},
		models.CategoryInsider: {
			"insider",
			"employee theft",
			"former employee",
			"disgruntled",
			"internal actor",
			"privilege misuse",
			"rogue employee",
		},
		models.CategoryDoS: {
			"denial of service",
			"denial-of-service",
			"ddos",
			"dos attack",
		},
		models.CategoryPhishing: {
			"phishing",
			"spear phishing",
			"social engineering",
			"business email compromise",
			"credential harvesting",
			"fraudulent email",
			"email scam",
		},
		models.CategoryMalware: {
			"malware",
			"virus",
			"trojan",
			"spyware",
			"keylogger",
			"backdoor",
			"botnet",
			"malicious software",
			"malicious code",
		},
	}

	weights := map[models.Category]int{
		models.CategoryPII:         3,
		models.CategoryHealth:      4,
		models.CategoryFinancial:   3,
		models.CategoryIP:          3,
		models.CategoryRansomware:  3,
		models.CategoryNationState: 3,
		models.CategoryInsider:     2,
		models.CategoryDoS:         1,
		models.CategoryPhishing:    2,
		models.CategoryMalware:     2,
	}

	t, err := New(keywords, weights)
	if err != nil {
		// Default must always construct; a failure here is a programming error.
		panic(err)
	}
	return t
}
