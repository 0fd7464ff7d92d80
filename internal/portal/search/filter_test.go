package search

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
)

func seedNGOs() []domain.NGO {
	return []domain.NGO{
		{ID: "1", Name: "BAQ", ManagerName: "Carlos Rodriguez", Email: "carlos@baq.org", Phone: "+593-2-234-5678"},
		{ID: "2", Name: "BAA Cuenca", ManagerName: "Ana Martinez", Email: "ana@baacuenca.org", Phone: "+593-7-234-5678"},
		{ID: "3", Name: "BA Esmeraldas", ManagerName: "Luis Torres", Email: "luis@baesmeraldas.org", Phone: "+593-6-234-5678"},
	}
}

func TestFilter_EmptyQueryReturnsAllInOrder(t *testing.T) {
	ngos := seedNGOs()
	got := Filter(ngos, "")
	if diff := cmp.Diff(ngos, got); diff != "" {
		t.Errorf("Filter(\"\") mismatch (-want +got):\n%s", diff)
	}
}

func TestFilter_CaseInsensitiveName(t *testing.T) {
	got := Filter(seedNGOs(), "cuenca")
	if assert.Len(t, got, 1) {
		assert.Equal(t, "2", got[0].ID)
	}
}

func TestFilter_MatchesManagerName(t *testing.T) {
	got := Filter(seedNGOs(), "TORRES")
	if assert.Len(t, got, 1) {
		assert.Equal(t, "BA Esmeraldas", got[0].Name)
	}
}

func TestFilter_DoesNotMatchEmailOrPhone(t *testing.T) {
	assert.Empty(t, Filter(seedNGOs(), "baq.org"))
	assert.Empty(t, Filter(seedNGOs(), "234-5678"))
}

func TestFilter_PreservesOrderOfMatches(t *testing.T) {
	got := Filter(seedNGOs(), "ba")
	ids := make([]string, 0, len(got))
	for _, n := range got {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)
}

func TestFilter_Idempotent(t *testing.T) {
	queries := []string{"", "a", "ba", "cuenca", "MARTINEZ", "zzz", " "}
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			once := Filter(seedNGOs(), q)
			twice := Filter(once, q)
			if diff := cmp.Diff(once, twice); diff != "" {
				t.Errorf("Filter not idempotent for %q (-once +twice):\n%s", q, diff)
			}
		})
	}
}

func TestFilter_DoesNotAliasInput(t *testing.T) {
	ngos := seedNGOs()
	got := Filter(ngos, "")
	got[0].Name = "changed"
	assert.Equal(t, "BAQ", ngos[0].Name)
}

func TestFilter_Projects(t *testing.T) {
	projects := []domain.NGOProject{
		{ID: "1", Name: "Community Garden Initiative", ManagerName: "Maria Garcia"},
		{ID: "2", Name: "Youth Education Program", ManagerName: "John Smith"},
	}
	got := Filter(projects, "garcia")
	if assert.Len(t, got, 1) {
		assert.Equal(t, "1", got[0].ID)
	}
}
