// Package education holds the static content for the waste-education page.
package education

// Resource is an external reading link.
type Resource struct {
	Title string
	URL   string
}

// Content groups the tips, facts, and resources shown on the education
// page.
type Content struct {
	Tips      []string
	Facts     map[string]string
	Resources []Resource
}

func Default() Content {
	return Content{
		Tips: []string{
			"Minimize single-use plastics to reduce landfill waste.",
			"Compost food scraps to lower methane emissions.",
			"Learn your local recycling symbols for better sorting.",
		},
		Facts: map[string]string{
			"Global waste":   "2.01 billion tons of waste generated annually worldwide.",
			"Recycling rate": "Only 9% of plastic is recycled globally.",
		},
		Resources: []Resource{
			{Title: "How to Recycle", URL: "https://www.recyclenow.com/how-to-recycle"},
			{Title: "Waste Reduction Guide", URL: "https://www.zerowaste.com"},
		},
	}
}
