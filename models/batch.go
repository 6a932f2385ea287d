package models

// ItemResult is the outcome for one position in a batch. Exactly one of
// Record or Err is set.
type ItemResult struct {
	Ref       VideoRef       `json:"ref"`
	Record    *SummaryRecord `json:"record,omitempty"`
	FromCache bool           `json:"from_cache"`
	Err       error          `json:"-"`
}

func (r ItemResult) OK() bool {
	return r.Err == nil && r.Record != nil
}

// BatchResult is the ordered outcome list for one batch. The order matches
// the submitted references after playlist expansion, duplicates included;
// this ordering is a contract with the presentation layer.
type BatchResult struct {
	Items []ItemResult `json:"items"`
}

func (b *BatchResult) Succeeded() int {
	n := 0
	for _, item := range b.Items {
		if item.OK() {
			n++
		}
	}
	return n
}

func (b *BatchResult) Failed() int {
	return len(b.Items) - b.Succeeded()
}

func (b *BatchResult) ServedFromCache() int {
	n := 0
	for _, item := range b.Items {
		if item.OK() && item.FromCache {
			n++
		}
	}
	return n
}
