// Package guidance holds the disposal-guidance catalog and generates the
// banner and per-step images each category links to.
package guidance

// Category is one waste type with its disposal steps, a five-color palette
// used by the rendered images, and a display icon. Values are immutable
// after the catalog is built.
type Category struct {
	Name    string
	Steps   []string
	Palette []string
	Icon    string
}

// Catalog is a fixed lookup table of waste categories. The declaration
// order of the table is the class order the classification model was
// trained with, so Names() must never be reordered.
type Catalog struct {
	names  []string
	byName map[string]Category
}

func NewCatalog() *Catalog {
	c := &Catalog{byName: make(map[string]Category, len(categories))}
	for _, cat := range categories {
		c.names = append(c.names, cat.Name)
		c.byName[cat.Name] = cat
	}
	return c
}

// Get looks up a category by name. A miss is a normal outcome, not an
// error: callers render a not-found page.
func (c *Catalog) Get(name string) (Category, bool) {
	cat, ok := c.byName[name]
	return cat, ok
}

// Names returns the category names in model class order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func (c *Catalog) Len() int { return len(c.names) }

var categories = []Category{
	{
		Name: "Automobile Waste",
		Steps: []string{
			"Separate fluids (oil, coolant, brake fluid) into appropriate containers",
			"Take batteries to authorized recycling centers",
			"Recycle metal components at scrap yards",
			"Dispose of tires at tire recycling facilities",
		},
		Palette: []string{"#E63946", "#F1FAEE", "#A8DADC", "#457B9D", "#1D3557"},
		Icon:    "🚗",
	},
	{
		Name: "Electronic Waste",
		Steps: []string{
			"Remove batteries and recycle separately",
			"Take to e-waste recycling centers",
			"Consider manufacturer take-back programs",
			"Erase personal data before disposal",
		},
		Palette: []string{"#2B2D42", "#8D99AE", "#EDF2F4", "#EF233C", "#D90429"},
		Icon:    "💻",
	},
	{
		Name: "Glass Waste",
		Steps: []string{
			"Rinse containers to remove residue",
			"Sort by color (clear, green, brown)",
			"Remove metal or plastic caps and lids",
			"Take to glass recycling dropoff points",
		},
		Palette: []string{"#CDDAFD", "#DFE7FD", "#F0EFEB", "#D7E3FC", "#CCDBFD"},
		Icon:    "🥛",
	},
	{
		Name: "Hazardous Waste",
		Steps: []string{
			"Keep in original labeled containers",
			"Never mix different hazardous materials",
			"Store away from heat and children",
			"Take to hazardous waste collection facilities",
		},
		Palette: []string{"#FF9F1C", "#FFBF69", "#FFFFFF", "#CBF3F0", "#2EC4B6"},
		Icon:    "⚠️",
	},
	{
		Name: "Metal Waste",
		Steps: []string{
			"Separate ferrous (magnetic) from non-ferrous metals",
			"Clean off food residue",
			"Flatten or crush containers to save space",
			"Take to scrap yards or recycling centers",
		},
		Palette: []string{"#5F0F40", "#9A031E", "#FB8B24", "#E36414", "#0F4C5C"},
		Icon:    "🔧",
	},
	{
		Name: "Organic Waste",
		Steps: []string{
			"Separate from non-compostable items",
			"Collect in compost bin with ventilation",
			"Layer with brown materials (leaves, paper)",
			"Use in garden or send to municipal composting",
		},
		Palette: []string{"#606C38", "#283618", "#FEFAE0", "#DDA15E", "#BC6C25"},
		Icon:    "🍎",
	},
	{
		Name: "Other",
		Steps: []string{
			"Check if material has recycling symbol",
			"Research local guidelines for mixed materials",
			"Contact waste authority for special disposal",
			"Consider creative reuse options",
		},
		Palette: []string{"#003049", "#D62828", "#F77F00", "#FCBF49", "#EAE2B7"},
		Icon:    "❓",
	},
	{
		Name: "Paper Waste",
		Steps: []string{
			"Remove plastic wrapping, tape, and metal fasteners",
			"Sort by type (cardboard, newspaper, mixed paper)",
			"Keep dry and clean",
			"Bundle or place in paper recycling bins",
		},
		Palette: []string{"#EDEDE9", "#D6CCC2", "#F5EBE0", "#E3D5CA", "#D5BDAF"},
		Icon:    "📄",
	},
	{
		Name: "Plastic Waste",
		Steps: []string{
			"Check recycling number (1-7) on bottom",
			"Rinse containers to remove residue",
			"Remove labels when possible",
			"Compress to save space in recycling bin",
		},
		Palette: []string{"#006466", "#065A60", "#0B525B", "#144552", "#1B3A4B"},
		Icon:    "♳",
	},
	{
		Name: "Textile Waste",
		Steps: []string{
			"Donate clean, wearable items to charity",
			"Repurpose damaged textiles as rags",
			"Take to textile recycling collection points",
			"Check with retailers for take-back programs",
		},
		Palette: []string{"#F72585", "#7209B7", "#3A0CA3", "#4361EE", "#4CC9F0"},
		Icon:    "👕",
	},
}
