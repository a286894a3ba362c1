package llm

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/catalog-extractor/constants"
)

// maxOCRChars bounds the OCR text embedded in an invoice prompt.
const maxOCRChars = 6000

// InventoryBrief describes the product list a bulk-generation call should produce.
type InventoryBrief struct {
	Brand       string
	Category    string
	KnownTypes  string
	Description string
	Quantity    int
	Extra       string // free-form caller instructions
}

// ProductBrief identifies the product a classification call is about.
type ProductBrief struct {
	Name     string
	Brand    string
	Category string
	Unit     string
}

// BuildInventoryPrompt asks for a markdown table in the canonical column order.
func BuildInventoryPrompt(b InventoryBrief) Prompt {
	sys := strings.Join([]string{
		"You are an inventory data assistant for an Indian retail distributor.",
		"You list real, currently sold products with Indian HSN codes and GST slabs.",
		"GST(%) must be one of " + joinInts(constants.GSTRates, ", ") + ".",
		"Pricing Mode must be exactly " + string(constants.PricingMRPInclusive) + " or " + string(constants.PricingBasePlusGST) + ".",
		"Prices are plain numbers in INR without currency symbols.",
		"Reply with the table only. No commentary, no bold or italic markup.",
	}, " ")

	var u strings.Builder
	fmt.Fprintf(&u, "Generate %d distinct products", b.Quantity)
	if brand := strings.TrimSpace(b.Brand); brand != "" {
		fmt.Fprintf(&u, " from the brand %q", brand)
	}
	if cat := strings.TrimSpace(b.Category); cat != "" {
		fmt.Fprintf(&u, " in the category %q", cat)
	}
	u.WriteString(".\n")
	if kt := strings.TrimSpace(b.KnownTypes); kt != "" {
		u.WriteString("Product types the shop already stocks: ")
		u.WriteString(kt)
		u.WriteString(".\n")
	}
	if d := strings.TrimSpace(b.Description); d != "" {
		u.WriteString("Shop description: ")
		u.WriteString(d)
		u.WriteString("\n")
	}
	if x := strings.TrimSpace(b.Extra); x != "" {
		u.WriteString("Additional instructions: ")
		u.WriteString(x)
		u.WriteString("\n")
	}
	u.WriteString("\nUse exactly this header and one row per product:\n")
	u.WriteString(constants.HeaderLine())
	u.WriteString("\n")
	u.WriteString(constants.SeparatorLine())
	u.WriteString("\nFill Base Price or MRP (or both) according to the Pricing Mode. Cost is the distributor purchase price.")

	return Prompt{System: sys, User: u.String()}
}

// BuildInvoicePrompt embeds OCR text and asks for one strict JSON object.
func BuildInvoicePrompt(ocrText string) Prompt {
	sys := strings.Join([]string{
		"You extract invoice data from OCR text.",
		"Return ONLY a JSON object, no markdown, with exactly these keys:",
		`customerName (string), customerPhone (string or null), invoiceDate (string, YYYY-MM-DD when possible),`,
		`productList (array of {name (string), quantity (number), unit (string), price (number)}),`,
		`subtotal (number or null), tax (number or null), total (number or null).`,
		"Numbers must be JSON numbers without currency symbols or thousands separators.",
		"Use null for values that are not present. Never invent products.",
	}, " ")

	text := strings.TrimSpace(ocrText)
	if len(text) > maxOCRChars {
		text = text[:maxOCRChars] + "\n…(truncated)"
	}
	return Prompt{System: sys, User: "OCR text:\n" + text, JSONMode: true}
}

// BuildClassificationPrompt asks for the HSN code and GST slab of one product.
func BuildClassificationPrompt(p ProductBrief) Prompt {
	sys := strings.Join([]string{
		"You are an Indian GST classification assistant.",
		"Return ONLY a JSON object with keys:",
		`hsn (string, 4 to 8 digits), gst (number, one of ` + joinInts(constants.GSTRates, ", ") + `),`,
		`confidence ("high", "medium" or "low"), reference (string, the tariff heading or notification you relied on).`,
	}, " ")

	var u strings.Builder
	u.WriteString("Product: ")
	u.WriteString(strings.TrimSpace(p.Name))
	for _, kv := range [][2]string{{"Brand", p.Brand}, {"Category", p.Category}, {"Unit", p.Unit}} {
		if v := strings.TrimSpace(kv[1]); v != "" {
			u.WriteString("\n")
			u.WriteString(kv[0])
			u.WriteString(": ")
			u.WriteString(v)
		}
	}
	return Prompt{System: sys, User: u.String(), JSONMode: true}
}

func joinInts(xs []int, sep string) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, sep)
}
