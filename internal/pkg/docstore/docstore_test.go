package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	Meta
	Text string
}

func TestQueryNormalize(t *testing.T) {
	q := Query{}.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 0, q.Offset())

	q = Query{Page: 3, Limit: 20}.Normalize()
	assert.Equal(t, 40, q.Offset())
}

func TestPrepare(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := &note{Text: "x"}

	m, err := PrepareInsert(n, now)
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, now, m.CreatedAt)

	later := now.Add(time.Hour)
	n2 := &note{Meta: Meta{ID: "ignored"}}
	_, err = PrepareUpdate(n2, n.ID, now, later)
	require.NoError(t, err)
	assert.Equal(t, n.ID, n2.ID)
	assert.Equal(t, now, n2.CreatedAt)
	assert.Equal(t, later, n2.UpdatedAt)
}

func TestMetaOfRejectsPlainStructs(t *testing.T) {
	_, err := MetaOf(&struct{ Text string }{})
	assert.Error(t, err)
}
