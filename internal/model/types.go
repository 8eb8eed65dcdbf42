package model

import "time"

type Language string

const (
	LangMove     Language = "move"
	LangSolidity Language = "solidity"
	LangRust     Language = "rust"
	LangUnknown  Language = "unknown"
)

func ParseLanguage(s string) Language {
	switch s {
	case string(LangMove):
		return LangMove
	case string(LangSolidity):
		return LangSolidity
	case string(LangRust):
		return LangRust
	default:
		return LangUnknown
	}
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func ParseSeverity(s string) Severity {
	switch s {
	case string(SeverityCritical):
		return SeverityCritical
	case string(SeverityHigh):
		return SeverityHigh
	case string(SeverityMedium):
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func SeverityGTE(a, b Severity) bool {
	order := map[Severity]int{SeverityLow: 1, SeverityMedium: 2, SeverityHigh: 3, SeverityCritical: 4}
	return order[a] >= order[b]
}

type RuleMeta struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Severity Severity `json:"severity"`
	Language Language `json:"language"`
	Tags     []string `json:"tags,omitempty"`
}

// Source is one contract handed to the scanner: raw text plus an optional
// declared language hint.
type Source struct {
	Name     string
	Content  string
	Language Language
}

type Finding struct {
	RuleID      string   `json:"rule_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Language    Language `json:"language"`
	Line        int      `json:"line"`
	Entity      string   `json:"entity,omitempty"`
	Snippet     string   `json:"snippet,omitempty"`
	Fingerprint string   `json:"fingerprint,omitempty"`
}

type SeverityCounts struct {
	Critical int `json:"critical_count"`
	High     int `json:"high_count"`
	Medium   int `json:"medium_count"`
	Low      int `json:"low_count"`
}

func CountBySeverity(findings []Finding) SeverityCounts {
	var c SeverityCounts
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			c.Critical++
		case SeverityHigh:
			c.High++
		case SeverityMedium:
			c.Medium++
		case SeverityLow:
			c.Low++
		}
	}
	return c
}

type RiskScore struct {
	Score int      `json:"score"`
	Level Severity `json:"level"`
}

// VulnerabilityReport is immutable once a scan returns it.
type VulnerabilityReport struct {
	ContractName string         `json:"contract_name"`
	Language     Language       `json:"language"`
	Findings     []Finding      `json:"findings"`
	Counts       SeverityCounts `json:"counts_by_severity"`
	RiskScore    RiskScore      `json:"risk_score"`
	Note         string         `json:"note,omitempty"`
	Elapsed      time.Duration  `json:"-"`
}

type Transaction struct {
	Hash      string    `json:"hash"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver,omitempty"`
	Contract  string    `json:"contract,omitempty"`
	Function  string    `json:"function,omitempty"`
	Amount    uint64    `json:"amount"`
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
}

type Policy struct {
	Name     string   `json:"name"`
	Type     string   `json:"policy_type"`
	Severity Severity `json:"severity"`
	Enabled  bool     `json:"enabled"`
}

type Violation struct {
	PolicyName string   `json:"policy_name"`
	PolicyType string   `json:"policy_type"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
}

type ComplianceResult struct {
	Passed          bool        `json:"passed"`
	PoliciesChecked int         `json:"policies_checked"`
	Violations      []Violation `json:"violations"`
}

type TransactionAlert struct {
	RiskLevel       Severity    `json:"risk_level"`
	RiskScore       int         `json:"risk_score"`
	Violations      []Violation `json:"violations"`
	TransactionHash string      `json:"transaction_hash"`
	Sender          string      `json:"sender"`
	Timestamp       time.Time   `json:"timestamp"`
}

type TransactionRecord struct {
	TransactionHash string    `json:"transaction_hash"`
	Timestamp       time.Time `json:"timestamp"`
	Success         bool      `json:"success"`
}

// Event is one wire message; exactly one JSON object per websocket frame,
// tagged by Type.
type Event struct {
	Type        string             `json:"type"`
	Alert       *TransactionAlert  `json:"alert,omitempty"`
	Transaction *TransactionRecord `json:"transaction,omitempty"`
}

const (
	EventNewTransaction   = "new_transaction"
	EventTransactionAlert = "transaction_alert"
	EventPing             = "ping"
	EventPong             = "pong"
)

type WorkflowStep struct {
	Agent string `json:"agent"`
	Task  string `json:"task"`
}

type Workflow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Tagline     string         `json:"tagline,omitempty"`
	Description string         `json:"description"`
	Steps       []WorkflowStep `json:"steps"`
	// Stages names the result key for each step, index-aligned with Steps.
	Stages []string `json:"-"`
}

type WorkflowResult struct {
	WorkflowID     string       `json:"workflow_id"`
	ExecutionTime  time.Time    `json:"execution_time"`
	StepsCompleted int          `json:"steps_completed"`
	ChainsAnalyzed []string     `json:"chains_analyzed,omitempty"`
	Results        StageResults `json:"results"`
}
