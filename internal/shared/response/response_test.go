package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, meta := Paginate(items, 2, 2)
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, int64(5), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	page, _ = Paginate(items, 9, 2)
	assert.Empty(t, page)

	page, meta = Paginate(items, 0, 0)
	assert.Len(t, page, 5)
	assert.Equal(t, 10, meta.PageSize)
}
