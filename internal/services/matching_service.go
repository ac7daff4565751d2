package services

import (
	"net/mail"
	"strings"
)

// minCompanyLen keeps names like "X" or "Go" from matching every email.
const minCompanyLen = 3

// MatchesCompany reports whether an email is about company, judging by the
// subject line, the sender's display name or the sender's domain.
func MatchesCompany(company, subject, rawSender string) bool {
	companyName := strings.ToLower(strings.TrimSpace(company))
	if len([]rune(companyName)) < minCompanyLen {
		return false
	}

	// "Stripe Recruiting <jobs@stripe.com>" -> name, address
	senderName, senderAddr := "", strings.ToLower(rawSender)
	if parsed, err := mail.ParseAddress(rawSender); err == nil {
		senderName = strings.ToLower(parsed.Name)
		senderAddr = strings.ToLower(parsed.Address)
	}

	if strings.Contains(strings.ToLower(subject), companyName) {
		return true
	}
	if senderName != "" && strings.Contains(senderName, companyName) {
		return true
	}

	// Only the part after '@'.
	if _, domain, ok := strings.Cut(senderAddr, "@"); ok && strings.Contains(domain, companyName) {
		return true
	}
	return false
}
