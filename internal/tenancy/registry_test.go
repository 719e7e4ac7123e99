package tenancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestRegistry() *Registry {
	reg := NewRegistry()
	reg.RegisterGlobal("tenants")
	reg.RegisterRoot("venues")
	reg.RegisterRoot("acts")
	reg.RegisterDependent("shows",
		Accessor{Name: "venue", Steps: []Step{{Table: "venues", ForeignKey: "venue_id", OnDelete: DeleteCascade}}},
		Accessor{Name: "act", Steps: []Step{{Table: "acts", ForeignKey: "act_id", OnDelete: DeleteRestrict}}},
	)
	reg.RegisterDependent("ticket_sales",
		Accessor{Name: "show", Steps: []Step{
			{Table: "shows", ForeignKey: "show_id", OnDelete: DeleteCascade},
			{Table: "venues", ForeignKey: "venue_id", OnDelete: DeleteCascade},
		}},
	)
	return reg
}

func TestLookupUnregisteredTableFails(t *testing.T) {
	reg := buildTestRegistry()

	_, err := reg.Lookup("widgets")
	require.Error(t, err)
	var unclassified *UnclassifiedEntityError
	assert.ErrorAs(t, err, &unclassified)
	assert.Equal(t, "widgets", unclassified.Table)
}

func TestLookupIsIdempotent(t *testing.T) {
	reg := buildTestRegistry()

	first, err := reg.Lookup("shows")
	require.NoError(t, err)
	second, err := reg.Lookup("shows")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, KindDependent, first.Kind)
	assert.Len(t, first.Accessors, 2)
}

func TestCheckCompleteFailsOnMissingTable(t *testing.T) {
	reg := buildTestRegistry()

	require.NoError(t, reg.CheckComplete([]string{"tenants", "venues", "shows"}))

	err := reg.CheckComplete([]string{"venues", "payments"})
	var unclassified *UnclassifiedEntityError
	require.ErrorAs(t, err, &unclassified)
	assert.Equal(t, "payments", unclassified.Table)
}

func TestRegisterDependentRejectsBadPaths(t *testing.T) {
	reg := NewRegistry()

	assert.Panics(t, func() {
		reg.RegisterDependent("orphans")
	})
	assert.Panics(t, func() {
		reg.RegisterDependent("deep", Accessor{Name: "x", Steps: []Step{
			{Table: "a", ForeignKey: "a_id"},
			{Table: "b", ForeignKey: "b_id"},
			{Table: "c", ForeignKey: "c_id"},
		}})
	})
}

func TestExistsClauseShape(t *testing.T) {
	oneHop := Accessor{Name: "venue", Steps: []Step{{Table: "venues", ForeignKey: "venue_id"}}}
	assert.Equal(t,
		"EXISTS (SELECT 1 FROM venues p1 WHERE p1.id = shows.venue_id AND p1.tenant_id = ?)",
		existsClause("shows", oneHop))

	twoHop := Accessor{Name: "show", Steps: []Step{
		{Table: "shows", ForeignKey: "show_id"},
		{Table: "venues", ForeignKey: "venue_id"},
	}}
	assert.Equal(t,
		"EXISTS (SELECT 1 FROM shows p1 JOIN venues p2 ON p2.id = p1.venue_id WHERE p1.id = ticket_sales.show_id AND p2.tenant_id = ?)",
		existsClause("ticket_sales", twoHop))
}

func TestDependentsOfReturnsDirectEdges(t *testing.T) {
	reg := buildTestRegistry()

	edges := reg.dependentsOf("venues")
	assert.Len(t, edges, 1)
	assert.Equal(t, "shows", edges[0].childTable)
	assert.Equal(t, DeleteCascade, edges[0].onDelete)

	edges = reg.dependentsOf("acts")
	assert.Len(t, edges, 1)
	assert.Equal(t, DeleteRestrict, edges[0].onDelete)

	// 两跳路径只在第一跳产生直接边
	edges = reg.dependentsOf("shows")
	assert.Len(t, edges, 1)
	assert.Equal(t, "ticket_sales", edges[0].childTable)
}
