package score

// Vocabulary is the term-list configuration the scorer matches against.
// Terms are matched as case-insensitive substrings; each term counts at most
// once per post.
type Vocabulary struct {
	// ICP match dimension.
	HighValue []string // x20 each
	Question  []string // x25 each
	LowValue  []string // -30 each

	// Topic relevance dimension.
	DirectRelevance []string // x30 each
	AdjacentTopics  []string // x15 each

	// Conversation stage markers, checked in this order; first hit wins.
	StageQuestion    []string // 85
	StageFrustration []string // 75
	StageDecided     []string // 30
}

// DefaultVocabulary returns the ICP vocabulary the briefing tool ships with.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		HighValue: []string{
			"own my data",
			"data sovereignty",
			"self-sovereign",
			"privacy by design",
			"decentralized",
			"peer-to-peer",
			"no single point of failure",
			"big tech",
			"walled gardens",
			"surveillance capitalism",
			"self-hosting",
			"homelab",
			"cypherpunk",
			"open web",
			"the web we were promised",
			"digital rights",
			"data ownership",
		},
		Question: []string{
			"is there an alternative",
			"looking for",
			"anyone know",
			"what's actually",
			"recommendations for",
			"trying to find",
			"frustrated with",
			"tired of",
			"concerned about",
			"worried about",
		},
		LowValue: []string{
			"token price",
			"to the moon",
			"nft",
			"airdrop",
			"presale",
			"enterprise solution",
			"b2b",
			"roi",
			"kpi",
		},
		DirectRelevance: []string{
			"decentralized storage",
			"encrypted storage",
			"private storage",
			"data privacy",
			"end-to-end encryption",
			"self-encrypting",
			"no servers",
			"serverless",
			"permanent storage",
			"censorship resistant",
		},
		AdjacentTopics: []string{
			"ipfs",
			"filecoin",
			"storj",
			"sia",
			"nextcloud",
			"syncthing",
			"proton",
			"signal",
			"cloud storage",
			"google drive",
			"dropbox",
			"aws",
			"azure",
			"cloud costs",
		},
		StageQuestion: []string{
			"?",
			"anyone",
			"looking for",
			"recommendations",
			"trying to",
		},
		StageFrustration: []string{
			"frustrated",
			"tired of",
			"hate",
			"annoyed",
			"sick of",
		},
		StageDecided: []string{
			"i use",
			"switched to",
			"moved to",
			"loving",
		},
	}
}
