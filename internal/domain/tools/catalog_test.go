package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogHasEightyTools(t *testing.T) {
	c := NewStaticCatalog()
	assert.Len(t, c.All(), 80)
}

func TestCatalogSlugLookup(t *testing.T) {
	c := NewStaticCatalog()

	for _, tool := range c.All() {
		got, ok := c.BySlug(tool.Slug)
		require.True(t, ok, "slug %s", tool.Slug)
		assert.Equal(t, tool.Slug, got.Slug)
	}

	_, ok := c.BySlug("no-such-tool")
	assert.False(t, ok)
}

func TestCatalogSlugsUnique(t *testing.T) {
	c := NewStaticCatalog()
	seen := map[string]bool{}
	for _, tool := range c.All() {
		assert.False(t, seen[tool.Slug], "duplicate slug %s", tool.Slug)
		seen[tool.Slug] = true
	}
}

func TestCatalogCategoriesCoverAllTools(t *testing.T) {
	c := NewStaticCatalog()
	total := 0
	for _, cat := range []Category{CategoryPDF, CategoryImage, CategoryAudio, CategoryGovernment} {
		tools := c.ByCategory(cat)
		assert.Len(t, tools, 20, "category %s", cat)
		total += len(tools)
	}
	assert.Equal(t, 80, total)
}

func TestCatalogToolsCarryIcon(t *testing.T) {
	c := NewStaticCatalog()
	for _, tool := range c.All() {
		assert.NotEmpty(t, tool.Icon, "tool %s", tool.Slug)
		assert.True(t, tool.IsActive)
	}
}
