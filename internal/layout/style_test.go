package layout

import (
	"testing"

	"github.com/sizzle/labelpress/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleTables_SizesDecrease(t *testing.T) {
	tables := []*StyleTable{LabelStyles, StandardMenuStyles, SnackMenuStyles, StorytelMenuStyles}

	for _, table := range tables {
		t.Run(table.Name(), func(t *testing.T) {
			require.NotEmpty(t, table.Roles())
			for _, role := range table.Roles() {
				normal := table.Resolve(role, domain.FontSizeNormal).Size
				small := table.Resolve(role, domain.FontSizeSmall).Size
				smaller := table.Resolve(role, domain.FontSizeSmaller).Size
				assert.Greater(t, normal, small, "role %s", role)
				assert.Greater(t, small, smaller, "role %s", role)
			}
		})
	}
}

func TestStyleTables_KnownSizes(t *testing.T) {
	tests := []struct {
		name  string
		table *StyleTable
		role  Role
		want  [3]float64
	}{
		{"label body text", LabelStyles, RoleBodyText, [3]float64{8, 7, 6}},
		{"menu body text", StandardMenuStyles, RoleBodyText, [3]float64{11, 9, 8}},
		{"menu title", SnackMenuStyles, RoleTitle, [3]float64{24, 20, 16}},
		{"storytel item name", StorytelMenuStyles, RoleItemName, [3]float64{13, 11, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := [3]float64{
				tt.table.Resolve(tt.role, domain.FontSizeNormal).Size,
				tt.table.Resolve(tt.role, domain.FontSizeSmall).Size,
				tt.table.Resolve(tt.role, domain.FontSizeSmaller).Size,
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStyleTable_EmptySelectionIsNormal(t *testing.T) {
	assert.Equal(t,
		LabelStyles.Resolve(RoleItemName, domain.FontSizeNormal),
		LabelStyles.Resolve(RoleItemName, ""))
}

func TestStyleTable_UnknownRolePanics(t *testing.T) {
	assert.Panics(t, func() {
		LabelStyles.Resolve(RoleDayHeader, domain.FontSizeNormal)
	})
}

func TestNewStyleTable_Validation(t *testing.T) {
	t.Run("missing required role", func(t *testing.T) {
		_, err := NewStyleTable("broken", map[Role][3]Style{
			RoleBodyText: tiered([3]float64{8, 7, 6}, FaceRegular, Black, [3]float64{}),
		}, RoleBodyText, RoleItemName)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "itemName")
	})

	t.Run("sizes not decreasing", func(t *testing.T) {
		_, err := NewStyleTable("broken", map[Role][3]Style{
			RoleBodyText: tiered([3]float64{8, 8, 6}, FaceRegular, Black, [3]float64{}),
		})
		require.Error(t, err)
	})

	t.Run("non-positive size", func(t *testing.T) {
		_, err := NewStyleTable("broken", map[Role][3]Style{
			RoleBodyText: tiered([3]float64{8, 7, 0}, FaceRegular, Black, [3]float64{}),
		})
		require.Error(t, err)
	})

	t.Run("valid table", func(t *testing.T) {
		table, err := NewStyleTable("ok", map[Role][3]Style{
			RoleBodyText: tiered([3]float64{8, 7, 6}, FaceRegular, Black, [3]float64{}),
		}, RoleBodyText)
		require.NoError(t, err)
		assert.Equal(t, []Role{RoleBodyText}, table.Roles())
	})
}

func TestStyle_Leading(t *testing.T) {
	assert.InDelta(t, 12.0, Style{Size: 10}.Leading(), 1e-9)
	assert.InDelta(t, 15.4, Style{Size: 11, LineHeight: 1.4}.Leading(), 1e-9)
}
