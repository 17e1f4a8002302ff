package mystore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeQuery(t *testing.T) {
	s := postgresStore[Parcel]{kind: "Parcel"}

	t.Run("Filter and order", func(t *testing.T) {
		sql, args, err := s.composeQuery([]Filter{{Field: "Status", Compare: "=", Value: "open"}}, "CreatedAt")
		assert.NoError(t, err)
		assert.Equal(t, `SELECT doc FROM documents WHERE kind = $1 AND doc->'Status' = $2::jsonb ORDER BY doc->'CreatedAt'`, sql)
		assert.Equal(t, []any{"Parcel", []byte(`"open"`)}, args)
	})

	t.Run("No filter", func(t *testing.T) {
		sql, args, err := s.composeQuery(nil, "")
		assert.NoError(t, err)
		assert.Equal(t, `SELECT doc FROM documents WHERE kind = $1 ORDER BY uid`, sql)
		assert.Equal(t, []any{"Parcel"}, args)
	})

	t.Run("Reject injection in field", func(t *testing.T) {
		_, _, err := s.composeQuery([]Filter{{Field: "x'; drop table documents; --", Compare: "=", Value: 1}}, "")
		assert.Error(t, err)
	})

	t.Run("Reject unknown comparison", func(t *testing.T) {
		_, _, err := s.composeQuery([]Filter{{Field: "Status", Compare: "LIKE", Value: "o%"}}, "")
		assert.Error(t, err)
	})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "Parcel", kindOf[Parcel]())
}
