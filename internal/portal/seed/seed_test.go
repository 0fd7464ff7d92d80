package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
)

func TestDefault(t *testing.T) {
	d := Default()

	require.Len(t, d.NGOs, 3)
	assert.Equal(t, domain.NGO{
		ID: "2", Name: "BAA Cuenca", ManagerName: "Ana Martinez",
		Email: "ana@baacuenca.org", Phone: "+593-7-234-5678",
	}, d.NGOs[1])

	require.Len(t, d.AdminProjects, 2)
	assert.Equal(t, domain.ReportingQuarterly, d.AdminProjects[1].ReportingPeriod)

	require.Len(t, d.NGOProjects, 2)
	assert.Equal(t, domain.FocusEnvironment, d.NGOProjects[0].FocusArea)
	assert.Equal(t, domain.FocusEducation, d.NGOProjects[1].FocusArea)
}

func TestClone_IsDeep(t *testing.T) {
	d := Default()
	d.AdminProjects[0].FocusAreas = []string{"nutrition"}
	d.NGOProjects[0].IndicatorValues = map[string]float64{"trees_planted": 5}

	c := d.Clone()
	c.NGOs[0].Name = "changed"
	c.AdminProjects[0].FocusAreas[0] = "changed"
	c.NGOProjects[0].IndicatorValues["trees_planted"] = 9

	assert.Equal(t, "BAQ", d.NGOs[0].Name)
	assert.Equal(t, "nutrition", d.AdminProjects[0].FocusAreas[0])
	assert.Equal(t, 5.0, d.NGOProjects[0].IndicatorValues["trees_planted"])
}

func TestParse_RejectsDuplicateIDs(t *testing.T) {
	_, err := Parse([]byte(`
ngos:
  - {id: "1", name: A}
  - {id: "1", name: B}
`))
	assert.ErrorContains(t, err, `duplicate id "1"`)
}

func TestParse_RejectsUnknownFocusArea(t *testing.T) {
	_, err := Parse([]byte(`
ngo_projects:
  - {id: "1", name: A, focus_area: astronomy}
`))
	assert.ErrorIs(t, err, domain.ErrUnknownFocusArea)
}

func TestLoad(t *testing.T) {
	d, err := Load("")
	require.NoError(t, err)
	assert.Len(t, d.NGOs, 3)

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ngos:\n  - {id: \"7\", name: Solo}\n"), 0o600))
	d, err = Load(path)
	require.NoError(t, err)
	require.Len(t, d.NGOs, 1)
	assert.Equal(t, "Solo", d.NGOs[0].Name)
	assert.Empty(t, d.AdminProjects)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
