package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/catalog-extractor/constants"
)

func TestBuildInventoryPrompt(t *testing.T) {
	p := BuildInventoryPrompt(InventoryBrief{
		Brand:       "Amul",
		Category:    "Dairy",
		KnownTypes:  "butter, cheese",
		Description: "neighbourhood kirana store",
		Quantity:    12,
		Extra:       "prefer 500g packs",
	})

	assert.False(t, p.JSONMode)
	assert.Contains(t, p.User, "Generate 12 distinct products")
	assert.Contains(t, p.User, `"Amul"`)
	assert.Contains(t, p.User, `"Dairy"`)
	assert.Contains(t, p.User, "butter, cheese")
	assert.Contains(t, p.User, "kirana")
	assert.Contains(t, p.User, "prefer 500g packs")
	assert.Contains(t, p.User, constants.HeaderLine())
	assert.Contains(t, p.System, "0, 5, 12, 18, 28")
}

func TestBuildInventoryPromptOmitsEmptyParts(t *testing.T) {
	p := BuildInventoryPrompt(InventoryBrief{Brand: "Tata", Quantity: 6})
	assert.NotContains(t, p.User, "category")
	assert.NotContains(t, p.User, "already stocks")
	assert.NotContains(t, p.User, "Additional instructions")
}

func TestBuildInvoicePromptTruncatesOCR(t *testing.T) {
	p := BuildInvoicePrompt(strings.Repeat("x", maxOCRChars+100))
	assert.True(t, p.JSONMode)
	assert.Contains(t, p.User, "(truncated)")
	assert.Less(t, len(p.User), maxOCRChars+100)
	assert.Contains(t, p.System, "productList")
}

func TestBuildClassificationPrompt(t *testing.T) {
	p := BuildClassificationPrompt(ProductBrief{Name: "Toned Milk 500ml", Brand: "Amul", Unit: "pouch"})
	assert.True(t, p.JSONMode)
	assert.Contains(t, p.User, "Product: Toned Milk 500ml")
	assert.Contains(t, p.User, "Brand: Amul")
	assert.Contains(t, p.User, "Unit: pouch")
	assert.NotContains(t, p.User, "Category:")
}
