package domain

type ScanOutcome string

const (
	ScanVisitCredited   ScanOutcome = "visit_credited"
	ScanAlreadyVisited  ScanOutcome = "already_visited"
	ScanCandidateMarked ScanOutcome = "candidate_marked"
	ScanMerchInfo       ScanOutcome = "merch_info"
)

// ScanResult is what the ingestion boundary hands back to the conversational
// layer after dispatching a decoded QR payload.
type ScanResult struct {
	Outcome ScanOutcome  `json:"outcome"`
	Visit   *VisitCredit `json:"visit,omitempty"`
	UserID  int64        `json:"user_id,omitempty"`
	Merch   *MerchItem   `json:"merch,omitempty"`
}
