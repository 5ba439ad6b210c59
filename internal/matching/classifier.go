package matching

import (
	"strings"

	"github.com/yungbote/payerdesk/internal/domain/registry"
	"github.com/yungbote/payerdesk/internal/platform/logger"
)

// Cluster is one canonical payer: the first detail seen defines its id, name
// and state.
type Cluster struct {
	PayerID   string
	PayerName string
	State     string
	Members   []registry.PayerDetail
}

type Result struct {
	Clusters []Cluster
	// Review holds details close enough to a cluster to need an operator.
	Review []registry.PayerDetail
}

type Classifier struct {
	log    *logger.Logger
	match  *Rule
	review *Rule
}

// NewClassifier compiles the two rules; blank sources fall back to the defaults.
func NewClassifier(log *logger.Logger, matchRule, reviewRule string) (*Classifier, error) {
	if log == nil {
		log = logger.Nop()
	}
	if strings.TrimSpace(matchRule) == "" {
		matchRule = DefaultMatchRule
	}
	if strings.TrimSpace(reviewRule) == "" {
		reviewRule = DefaultReviewRule
	}
	m, err := CompileRule(matchRule)
	if err != nil {
		return nil, err
	}
	r, err := CompileRule(reviewRule)
	if err != nil {
		return nil, err
	}
	return &Classifier{log: log.With("service", "Classifier"), match: m, review: r}, nil
}

// Classify scans details in order. Each detail is tested against every
// existing cluster in creation order: the first cluster satisfying the match
// rule absorbs it; the first satisfying the review rule flags it; a detail
// that hits neither rule anywhere opens a new cluster.
func (c *Classifier) Classify(details []registry.PayerDetail) (Result, error) {
	var res Result
	lowered := make([]string, 0)
	for _, d := range details {
		name := strings.ToLower(d.PayerName)
		placed := false
		for i := range res.Clusters {
			cl := &res.Clusters[i]
			facts := Facts{
				Score:     Ratio(name, lowered[i]),
				SameID:    d.PayerID == cl.PayerID,
				SameState: sameState(d.State, cl.State),
			}
			ok, err := c.match.Eval(facts)
			if err != nil {
				return Result{}, err
			}
			if ok {
				cl.Members = append(cl.Members, d)
				placed = true
				break
			}
			ok, err = c.review.Eval(facts)
			if err != nil {
				return Result{}, err
			}
			if ok {
				res.Review = append(res.Review, d)
				placed = true
				break
			}
		}
		if !placed {
			res.Clusters = append(res.Clusters, Cluster{
				PayerID:   d.PayerID,
				PayerName: d.PayerName,
				State:     d.State,
				Members:   []registry.PayerDetail{d},
			})
			lowered = append(lowered, name)
		}
	}
	c.log.Debug("Classified details", "details", len(details), "clusters", len(res.Clusters), "review", len(res.Review))
	return res, nil
}

func sameState(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
