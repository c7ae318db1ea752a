package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDefaults(t *testing.T) {
	page := Pagination{}.Normalize()
	assert.Equal(t, 1, page.PageNum)
	assert.Equal(t, DefaultPageSize, page.PageSize)

	page = Pagination{PageNum: -3, PageSize: 0}.Normalize()
	assert.Equal(t, 1, page.PageNum)
	assert.Equal(t, DefaultPageSize, page.PageSize)

	page = Pagination{PageNum: 4, PageSize: 25}.Normalize()
	assert.Equal(t, 4, page.PageNum)
	assert.Equal(t, 25, page.PageSize)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Pagination{PageNum: 1, PageSize: 12}.Offset())
	assert.Equal(t, 24, Pagination{PageNum: 3, PageSize: 12}.Offset())
}

func TestNewPagePageCount(t *testing.T) {
	cases := []struct {
		total int64
		size  int
		pages int64
	}{
		{0, 12, 0},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{25, 12, 3},
	}
	for _, tc := range cases {
		page := NewPage([]int{}, tc.total, Pagination{PageNum: 1, PageSize: tc.size})
		assert.Equal(t, tc.pages, page.Pages, "total=%d size=%d", tc.total, tc.size)
	}
}

func TestNewPageNeverNilRecords(t *testing.T) {
	page := NewPage[string](nil, 0, Pagination{})
	assert.NotNil(t, page.Records)
	assert.Empty(t, page.Records)
}

func TestSlicePage(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}

	page := SlicePage(all, Pagination{PageNum: 1, PageSize: 2})
	assert.Equal(t, []int{1, 2}, page.Records)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, int64(3), page.Pages)

	page = SlicePage(all, Pagination{PageNum: 3, PageSize: 2})
	assert.Equal(t, []int{5}, page.Records)

	page = SlicePage(all, Pagination{PageNum: 9, PageSize: 2})
	assert.Empty(t, page.Records)
	assert.Equal(t, int64(5), page.Total)
}

func TestEmpty(t *testing.T) {
	page := Empty[int](Pagination{PageNum: 2, PageSize: 10})
	assert.Empty(t, page.Records)
	assert.Equal(t, int64(0), page.Total)
	assert.Equal(t, 2, page.Current)
	assert.Equal(t, 10, page.Size)
}
