// Package intel accumulates extracted-intelligence fragments across turns.
// Everything here is a pure function of its inputs so the merge rules stay
// unit-testable in isolation.
package intel

import "github.com/honeynet-in/honeypot-backend/internal/models"

// MergeIntelligence folds an incoming fragment into the accumulated view.
// String collections merge as a set union preserving first-seen order.
// Crypto wallets merge keyed by address; on collision the incoming record's
// auxiliary fields win but the address set only grows. ScamType is replaced
// only when the incoming fragment carries one. Entities never disappear.
func MergeIntelligence(prev, next models.ExtractedIntelligence) models.ExtractedIntelligence {
	merged := models.ExtractedIntelligence{
		CryptoWallets:      mergeWallets(prev.CryptoWallets, next.CryptoWallets),
		BankAccounts:       mergeStrings(prev.BankAccounts, next.BankAccounts),
		UpiIDs:             mergeStrings(prev.UpiIDs, next.UpiIDs),
		PhishingLinks:      mergeStrings(prev.PhishingLinks, next.PhishingLinks),
		PhoneNumbers:       mergeStrings(prev.PhoneNumbers, next.PhoneNumbers),
		EmailAddresses:     mergeStrings(prev.EmailAddresses, next.EmailAddresses),
		SuspiciousKeywords: mergeStrings(prev.SuspiciousKeywords, next.SuspiciousKeywords),
		ScamType:           prev.ScamType,
	}
	if next.ScamType != "" {
		merged.ScamType = next.ScamType
	}
	return merged
}

// MergeLogic folds an incoming internal-logic fragment into accumulated
// session state. scamDetected is a monotonic OR; readyForFinalCallback and
// agentNotes reflect the latest server decision and simply overwrite; the
// session id is fixed for the state's lifetime and never altered by a merge.
func MergeLogic(prev, next models.InternalLogic) models.InternalLogic {
	merged := models.InternalLogic{
		SessionID:             prev.SessionID,
		ScamDetected:          prev.ScamDetected || next.ScamDetected,
		ReadyForFinalCallback: next.ReadyForFinalCallback,
		AgentNotes:            next.AgentNotes,
		ConversationTurn:      prev.ConversationTurn,
		ExtractedIntelligence: MergeIntelligence(prev.ExtractedIntelligence, next.ExtractedIntelligence),
	}
	if next.ConversationTurn != 0 {
		merged.ConversationTurn = next.ConversationTurn
	}
	return merged
}

func mergeStrings(prev, next []string) []string {
	if len(prev) == 0 && len(next) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(prev)+len(next))
	out := make([]string, 0, len(prev)+len(next))
	for _, s := range prev {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	for _, s := range next {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func mergeWallets(prev, next []models.CryptoWallet) []models.CryptoWallet {
	if len(prev) == 0 && len(next) == 0 {
		return nil
	}
	index := make(map[string]int, len(prev)+len(next))
	out := make([]models.CryptoWallet, 0, len(prev)+len(next))
	for _, w := range append(append([]models.CryptoWallet{}, prev...), next...) {
		if w.Address == "" {
			continue
		}
		if i, ok := index[w.Address]; ok {
			// Last-seen wins for auxiliary fields on the same address.
			out[i] = w
			continue
		}
		index[w.Address] = len(out)
		out = append(out, w)
	}
	return out
}
