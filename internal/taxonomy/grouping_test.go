package taxonomy

import (
	"testing"

	"github.com/yungbote/payerdesk/internal/domain/registry"
	"github.com/yungbote/payerdesk/internal/pkg/pointers"
)

func payer(id string, group string) registry.Payer {
	p := registry.Payer{PayerID: id, PayerName: "payer " + id}
	if group != "" {
		p.GroupID = pointers.String(group)
	}
	return p
}

func TestGroupPayersPartitionsPage(t *testing.T) {
	t.Parallel()
	items := []registry.Payer{
		payer("1", "DD"),
		payer("2", ""),
		payer("3", "AET"),
		payer("4", "DD"),
		payer("5", ""),
	}
	got := GroupPayers(items)

	if len(got.Keys) != 3 || got.Keys[0] != "DD" || got.Keys[1] != UnassignedKey || got.Keys[2] != "AET" {
		t.Fatalf("keys: %v", got.Keys)
	}
	if dd := got.Buckets["DD"]; len(dd) != 2 || dd[0].PayerID != "1" || dd[1].PayerID != "4" {
		t.Fatalf("DD bucket order: %v", dd)
	}
	if got.Count(UnassignedKey) != 2 {
		t.Fatalf("unassigned count: %d", got.Count(UnassignedKey))
	}

	seen := map[string]int{}
	for _, b := range got.Buckets {
		for _, p := range b {
			seen[p.PayerID]++
		}
	}
	if len(seen) != len(items) || got.Len() != len(items) {
		t.Fatalf("union mismatch: seen=%v len=%d", seen, got.Len())
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("payer %s appears %d times", id, n)
		}
	}
}

func TestGroupPayersEmptyGroupPointerIsUnassigned(t *testing.T) {
	t.Parallel()
	p := registry.Payer{PayerID: "x", GroupID: pointers.String("")}
	if KeyOf(p) != UnassignedKey {
		t.Fatalf("KeyOf: %q", KeyOf(p))
	}
}

func TestGroupingSections(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	r.Seed([]registry.Group{g("DD", "Delta Dental"), g("AET", "aetna")})
	grouping := GroupPayers([]registry.Payer{payer("1", ""), payer("2", "DD"), payer("3", "ZZ"), payer("4", "AET")})

	sections := grouping.Sections(r)
	labels := make([]string, 0, len(sections))
	for _, s := range sections {
		labels = append(labels, s.Label)
	}
	want := []string{"aetna", "Delta Dental", "ZZ", UnassignedLabel}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("labels: got=%v want=%v", labels, want)
		}
	}
}
