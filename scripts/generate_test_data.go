package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"
)

var (
	orgNames = []string{"Lakeside Medical Center", "First Union Credit", "Orchard Retail Group", "Northgate University", "Civic Services Dept", "Brightline Software", "Harbor Logistics", "Summit Insurance", "Pine Valley Clinic", "Metro Utilities"}
	orgTypes = []string{"Healthcare", "Financial", "Retail", "Education", "Government", "Technology", "Logistics", "Insurance"}

	narratives = []struct {
		text  string
		types string
	}{
		{"Ransomware attack encrypted file servers; attackers demanded payment for decryption keys.", "internal files"},
		{"Phishing email led to compromise of employee credentials and mailbox access.", "email addresses, names"},
		{"Unsecured database exposed protected health information including patient diagnosis records.", "medical records"},
		{"Former employee downloaded customer lists before departure.", "names, email addresses"},
		{"Malware infection on point-of-sale systems captured payment card data.", "credit card numbers"},
		{"Distributed denial of service attack took customer portal offline for several hours.", ""},
		{"State sponsored actors exfiltrated proprietary research data over several months.", "research data, source code"},
		{"Stolen laptop contained spreadsheets with social security numbers and dates of birth.", "ssn, date of birth"},
		{"Business email compromise resulted in fraudulent wire transfers from the finance department.", "bank account details"},
		{"Misconfigured cloud storage exposed personal information of registered users.", "names, home addresses, phone numbers"},
	}
)

func main() {
	seed := int64(42)
	if len(os.Args) > 2 {
		if v, err := strconv.ParseInt(os.Args[2], 10, 64); err == nil {
			seed = v
		}
	}
	rng := rand.New(rand.NewSource(seed))

	count := 500
	if len(os.Args) > 1 {
		if v, err := strconv.Atoi(os.Args[1]); err == nil {
			count = v
		}
	}

	w := csv.NewWriter(os.Stdout)
	w.Write([]string{"id", "incident_details", "information_types", "org_name", "org_type", "total_affected", "breach_year"})

	for i := 0; i < count; i++ {
		n := narratives[rng.Intn(len(narratives))]

		// Leave some magnitudes blank or junk to mimic real reporting gaps.
		affected := ""
		switch rng.Intn(10) {
		case 0:
		case 1:
			affected = "unknown"
		default:
			affected = strconv.Itoa(int(rng.ExpFloat64() * 20000))
		}

		w.Write([]string{
			fmt.Sprintf("B-%04d", i+1),
			n.text,
			n.types,
			orgNames[rng.Intn(len(orgNames))],
			orgTypes[rng.Intn(len(orgTypes))],
			affected,
			strconv.Itoa(2015 + rng.Intn(10)),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		fmt.Fprintln(os.Stderr, "writing corpus:", err)
		os.Exit(1)
	}
}
