package quality

type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
	Members  []string `json:"members"`
}

type Summary struct {
	Tables          int             `json:"tables"`
	Categories      []CategoryCount `json:"categories"`
	MostCommon      Category        `json:"most_common"`
	MostCommonCount int             `json:"most_common_count"`
}

// Aggregator folds per-table reports into run-wide totals. Create one per
// run and call Summary once every table has been added.
type Aggregator struct {
	tables int
	issues *IssueSet
}

func NewAggregator() *Aggregator {
	return &Aggregator{issues: NewIssueSet()}
}

func (a *Aggregator) Add(r *Report) {
	a.tables++
	a.issues.Merge(r.Issues)
}

func (a *Aggregator) Tables() int {
	return a.tables
}

func (a *Aggregator) Issues() *IssueSet {
	return a.issues
}

// Summary reports the per-category totals. Ties for the most common
// category go to the one declared first.
func (a *Aggregator) Summary() Summary {
	s := Summary{Tables: a.tables, MostCommon: NullValues}
	best := -1
	for _, c := range Categories() {
		n := a.issues.Len(c)
		s.Categories = append(s.Categories, CategoryCount{
			Category: c,
			Count:    n,
			Members:  a.issues.Names(c),
		})
		if n > best {
			best = n
			s.MostCommon = c
			s.MostCommonCount = n
		}
	}
	return s
}
