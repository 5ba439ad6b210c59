package matching

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/payerdesk/internal/domain/registry"
)

func detail(id int64, payerID, name, state string) registry.PayerDetail {
	return registry.PayerDetail{DetailID: id, PayerID: payerID, PayerName: name, State: state, Source: "Sheet1"}
}

func ids(ds []registry.PayerDetail) []int64 {
	out := make([]int64, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.DetailID)
	}
	return out
}

func TestClassifyDefaults(t *testing.T) {
	c, err := NewClassifier(nil, "", "")
	require.NoError(t, err)

	res, err := c.Classify([]registry.PayerDetail{
		detail(1, "P1", "Delta Dental of Arizona", "AZ"),
		detail(2, "P2", "Delta Dental of AZ", "AZ"),
		detail(3, "P3", "Delta Dental of AZ", "TX"),
		detail(4, "P1", "Something Else", "CA"),
		detail(5, "P4", "Aetna", "TX"),
		detail(6, "P5", "Aetna Inc", "TX"),
	})
	require.NoError(t, err)

	require.Len(t, res.Clusters, 3)
	require.Equal(t, "P1", res.Clusters[0].PayerID)
	require.Equal(t, "Delta Dental of Arizona", res.Clusters[0].PayerName)
	require.Equal(t, []int64{1, 2, 4}, ids(res.Clusters[0].Members))
	require.Equal(t, "P3", res.Clusters[1].PayerID)
	require.Equal(t, "P4", res.Clusters[2].PayerID)
	require.Equal(t, []int64{6}, ids(res.Review))
}

func TestClassifyCustomRules(t *testing.T) {
	c, err := NewClassifier(nil, "same_id", "false")
	require.NoError(t, err)

	res, err := c.Classify([]registry.PayerDetail{
		detail(1, "P1", "Aetna", "TX"),
		detail(2, "P2", "Aetna", "TX"),
		detail(3, "P1", "Aetna Dental", "TX"),
	})
	require.NoError(t, err)
	require.Len(t, res.Clusters, 2)
	require.Equal(t, []int64{1, 3}, ids(res.Clusters[0].Members))
	require.Empty(t, res.Review)
}

func TestClassifyEmpty(t *testing.T) {
	c, err := NewClassifier(nil, "", "")
	require.NoError(t, err)
	res, err := c.Classify(nil)
	require.NoError(t, err)
	require.Empty(t, res.Clusters)
	require.Empty(t, res.Review)
}

func TestCompileRuleErrors(t *testing.T) {
	for _, src := range []string{"", "   ", "score >", "score", "unknown_var > 1"} {
		_, err := CompileRule(src)
		require.Error(t, err, src)
	}
}

func TestRuleEval(t *testing.T) {
	m := MustCompileRule(DefaultMatchRule)
	r := MustCompileRule(DefaultReviewRule)

	tests := []struct {
		facts         Facts
		match, review bool
	}{
		{Facts{Score: 10, SameID: true}, true, false},
		{Facts{Score: 90, SameState: true}, true, false},
		{Facts{Score: 90}, false, false},
		{Facts{Score: 85}, false, true},
		{Facts{Score: 71}, false, true},
		{Facts{Score: 70}, false, false},
	}
	for _, tt := range tests {
		gotM, err := m.Eval(tt.facts)
		require.NoError(t, err)
		gotR, err := r.Eval(tt.facts)
		require.NoError(t, err)
		require.Equal(t, tt.match, gotM, "%+v", tt.facts)
		require.Equal(t, tt.review, gotR, "%+v", tt.facts)
	}
	require.Equal(t, DefaultMatchRule, m.String())
}

func TestNewClassifierBadRule(t *testing.T) {
	_, err := NewClassifier(nil, "score >", "")
	require.Error(t, err)
}
