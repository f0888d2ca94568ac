package enrich

import (
	"encoding/json"
	"strings"

	"shelfstock/internal/domain"
)

// BuildPrompt renders a product into the enrichment instruction. The prompt
// carries the full schema contract so the model has no room to invent field
// names, and asks for the answer inside a fenced json block, which is the
// delimiter ExtractJSON targets.
func BuildPrompt(p domain.Product) string {
	productJSON, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		// Product only contains marshalable fields; this cannot happen.
		productJSON = []byte("{}")
	}

	var b strings.Builder
	b.WriteString("You are an expert product data enricher. Given the product below, enrich it with the following attributes:\n\n")
	b.WriteString("- itemWeight: An object with \"value\" (number) and \"unit\" (string, e.g., \"g\")\n")
	b.WriteString("- ingredients: Array of strings (Only include this if the product is edible. Do NOT include it for non-edible products.)\n")
	b.WriteString("- description: Short paragraph describing the product\n")
	b.WriteString("- storage: Array of one or more values ONLY from:\n")
	for _, st := range domain.StorageTypes {
		b.WriteString("    - ")
		b.WriteString(string(st))
		b.WriteString("\n")
	}
	b.WriteString("- itemsPerPack: Number\n")
	b.WriteString("- color: String\n")
	b.WriteString("- material: String\n")
	b.WriteString("- width: An object with \"value\" (number) and \"unit\" (string, e.g., \"cm\")\n")
	b.WriteString("- height: An object with \"value\" (number) and \"unit\" (string, e.g., \"cm\")\n")
	b.WriteString("- warranty: A number representing number of years (e.g., 2 for 2 years)\n\n")
	b.WriteString("IMPORTANT:\n")
	b.WriteString("- Do NOT use strings like \"2 years\" for warranty, just use the number: 2.\n")
	b.WriteString("- Always return pure JSON that matches this structure.\n\n")
	b.WriteString("Product:\n")
	b.Write(productJSON)
	b.WriteString("\n\nRespond with ONLY the JSON object, wrapped in a ```json code block.\n")
	return b.String()
}
