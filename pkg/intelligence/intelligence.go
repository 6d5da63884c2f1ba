// Package intelligence defines the wire-level scam-intelligence types
// exchanged between the backend, the hosted model, and the Go client.
package intelligence

// CryptoWallet is one wallet address the model claims to have extracted,
// together with the chain type and the model's confidence.
type CryptoWallet struct {
	Address    string `json:"address"`
	Type       string `json:"type"`
	Confidence string `json:"confidence,omitempty"`
}

// ExtractedIntelligence is the structured set of scam-relevant entities
// extracted from a conversation. All collections may arrive partially
// populated on any given turn; accumulation across turns is a merge concern.
type ExtractedIntelligence struct {
	CryptoWallets      []CryptoWallet `json:"cryptoWallets,omitempty"`
	BankAccounts       []string       `json:"bankAccounts,omitempty"`
	UpiIDs             []string       `json:"upiIds,omitempty"`
	PhishingLinks      []string       `json:"phishingLinks,omitempty"`
	PhoneNumbers       []string       `json:"phoneNumbers,omitempty"`
	EmailAddresses     []string       `json:"emailAddresses,omitempty"`
	SuspiciousKeywords []string       `json:"suspiciousKeywords,omitempty"`
	ScamType           string         `json:"scamType,omitempty"`
}

// HasPaymentIntelligence reports whether any of the collections that trigger
// the completeness override are non-empty.
func (e *ExtractedIntelligence) HasPaymentIntelligence() bool {
	if e == nil {
		return false
	}
	return len(e.CryptoWallets) > 0 || len(e.BankAccounts) > 0 ||
		len(e.UpiIDs) > 0 || len(e.PhishingLinks) > 0
}

// InternalLogic is the structured payload attached to every assistant turn:
// the detection flags plus the extracted intelligence for the session.
type InternalLogic struct {
	ScamDetected          bool                  `json:"scamDetected"`
	SessionID             string                `json:"sessionId"`
	ConversationTurn      int                   `json:"conversationTurn,omitempty"`
	ReadyForFinalCallback bool                  `json:"readyForFinalCallback"`
	ExtractedIntelligence ExtractedIntelligence `json:"extractedIntelligence"`
	AgentNotes            string                `json:"agentNotes"`
}
