package paginate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/videohub/internal/apperrors"
)

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tests := []struct {
			name   string
			page   string
			limit  string
			want   Params
			offset int
		}{
			{"defaults", "", "", Params{Page: 1, Limit: 10}, 0},
			{"second page", "2", "10", Params{Page: 2, Limit: 10}, 10},
			{"custom limit", "3", "7", Params{Page: 3, Limit: 7}, 14},
			{"limit clamped", "1", "500", Params{Page: 1, Limit: 100}, 0},
			{"huge page saturates offset", "92233720368547760", "100", Params{Page: 92233720368547760, Limit: 100}, math.MaxInt},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := Parse(tt.page, tt.limit)

				require.NoError(t, err)
				require.Equal(t, tt.want, got)
				require.Equal(t, tt.offset, got.Offset())
			})
		}
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name  string
			page  string
			limit string
		}{
			{"non numeric page", "abc", "10"},
			{"non numeric limit", "1", "ten"},
			{"zero page", "0", "10"},
			{"negative page", "-1", "10"},
			{"zero limit", "1", "0"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := Parse(tt.page, tt.limit)

				require.Error(t, err)
				require.Equal(t, apperrors.KindValidationFailed, apperrors.KindOf(err))
			})
		}
	})
}

func TestNewPage(t *testing.T) {
	t.Run("25 records by 10", func(t *testing.T) {
		p, err := Parse("3", "10")
		require.NoError(t, err)

		page := NewPage([]int{21, 22, 23, 24, 25}, 25, p)

		require.Equal(t, 3, page.TotalPages)
		require.Equal(t, 3, page.CurrentPage)
		require.Len(t, page.Items, 5)
	})

	t.Run("past the end is empty", func(t *testing.T) {
		page := NewPage[int](nil, 25, Params{Page: 4, Limit: 10})

		require.NotNil(t, page.Items, "empty page must render as empty list")
		require.Empty(t, page.Items)
		require.Equal(t, 3, page.TotalPages)
	})

	t.Run("no records", func(t *testing.T) {
		page := NewPage([]int{}, 0, Params{Page: 1, Limit: 10})

		require.Equal(t, 0, page.TotalPages)
		require.EqualValues(t, 0, page.Total)
	})
}
