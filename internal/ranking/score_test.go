package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	usage := map[string]int{"Workspace": 3, "Mail": 4}

	assert.Equal(t, 3, Score("Workspace", usage, Streak{}, 14))
	assert.Equal(t, 8, Score("Workspace", usage, Streak{}, 9))
	assert.Equal(t, 14, Score("Workspace", usage, Streak{App: "Workspace", Len: 3}, 9))
	assert.Equal(t, 3, Score("Workspace", usage, Streak{App: "Workspace", Len: 1}, 13))
	assert.Equal(t, 0, Score("Calendar", usage, Streak{App: "Mail", Len: 4}, 13))
	assert.Equal(t, 5, Score("Games", nil, Streak{}, 22))
	assert.Equal(t, 0, Score("Games", nil, Streak{}, 23))
}

func TestRankIsStable(t *testing.T) {
	apps := []string{"Mail", "Calendar", "Workspace", "Finance Tracker"}
	usage := map[string]int{"Mail": 2, "Calendar": 2, "Finance Tracker": 9}

	got := Rank(apps, usage, Streak{}, 14)
	assert.Equal(t, []Scored{
		{App: "Finance Tracker", Score: 9},
		{App: "Mail", Score: 2},
		{App: "Calendar", Score: 2},
		{App: "Workspace", Score: 0},
	}, got)

	reversed := Rank([]string{"Calendar", "Mail"}, usage, Streak{}, 14)
	assert.Equal(t, "Calendar", reversed[0].App)
	assert.Equal(t, "Mail", reversed[1].App)
}

func TestCatalogByAge(t *testing.T) {
	assert.Equal(t, "Creative Canvas", Catalog(7)[0].Name)
	assert.Equal(t, "Social Hub", Catalog(13)[0].Name)
	assert.Equal(t, "Workspace", Catalog(18)[0].Name)
	assert.Len(t, Names(Catalog(40)), 5)

	c := Catalog(40)
	c[0].Name = "changed"
	assert.Equal(t, "Workspace", Catalog(40)[0].Name)
}
