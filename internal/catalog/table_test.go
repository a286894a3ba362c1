package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/catalog-extractor/constants"
	"github.com/joseph-ayodele/catalog-extractor/internal/common"
)

func TestHasHeaderToleratesCaseAndSpacing(t *testing.T) {
	assert.True(t, HasHeader(constants.HeaderLine()))
	assert.True(t, HasHeader("|product name|BRAND|Category|sku|Unit|Hsn|GST (%)|Pricing  Mode|base price|MRP|cost|"))
	assert.True(t, HasHeader("Here you go:\n| Product Name | Brand | Category | SKU | Unit | HSN | GST( % ) | Pricing Mode | Base Price | MRP | Cost |"))
	assert.False(t, HasHeader("| Product Name | Brand | Category | SKU | Unit | HSN | Pricing Mode | Base Price | MRP | Cost |"))
	assert.False(t, HasHeader(`[{"productName":"x"}]`))
}

func TestParseTablePassesThroughMarkdown(t *testing.T) {
	text := constants.HeaderLine() + "\n|---|\n| a | b |"
	out, err := ParseTable(text)
	require.NoError(t, err)
	assert.Equal(t, text, out)
}

func TestParseTableRecoversJSONArray(t *testing.T) {
	out, err := ParseTable(`[{"productName":"Gold Milk","SKU":"AM-1","gst":5,"mrp":68,"extra":true}]`)
	require.NoError(t, err)
	assert.True(t, HasHeader(out))
	assert.Contains(t, out, "| Gold Milk |  |  | AM-1 |  |  | 5 | MRP_INCLUSIVE |  | 68 |  |")
}

func TestParseTableRecoversEmbeddedArray(t *testing.T) {
	out, err := ParseTable("Sure! Here is the data:\n[{\"name\":\"Ghee\",\"Sku\":\"G-1\",\"pricing_mode\":\"BASE_PLUS_GST\"}]\nLet me know.")
	require.NoError(t, err)
	assert.Contains(t, out, "| Ghee |")
	assert.Contains(t, out, "| G-1 |")
	assert.Contains(t, out, "| BASE_PLUS_GST |")
}

func TestParseTableFailsWithoutStructure(t *testing.T) {
	for _, in := range []string{"", "I cannot help with that.", "null", `{"productName":"x"}`, "[not json]"} {
		_, err := ParseTable(in)
		assert.ErrorIs(t, err, common.ErrParse, "input %q", in)
	}
}

func TestProjectFirstAliasWins(t *testing.T) {
	row := project(map[string]any{"sku": "lower", "SKU": "upper", "name": "n", "productName": "p"})
	assert.Equal(t, "lower", row[constants.ColSKU])
	assert.Equal(t, "p", row[constants.ColProductName])
	assert.Equal(t, string(constants.PricingMRPInclusive), row[constants.ColPricingMode])
}

func TestCellTextFlattensPipes(t *testing.T) {
	assert.Equal(t, "a/b c", cellText("a|b\nc"))
	assert.Equal(t, "1250000", cellText(1250000.0))
	assert.Equal(t, "12.5", cellText(12.5))
}
