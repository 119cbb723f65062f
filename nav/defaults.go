package nav

var defaultSections = []Item{
	{
		Title: "Getting Started",
		Href:  "/docs/getting-started",
		Items: []Item{
			{Title: "Introduction", Href: "/docs/introduction"},
			{Title: "Installation", Href: "/docs/installation"},
			{Title: "Hello World", Href: "/docs/hello-world"},
		},
	},
	{
		Title: "Basics",
		Href:  "/docs/basics",
		Items: []Item{
			{Title: "Variables", Href: "/docs/variables"},
			{Title: "Data Types", Href: "/docs/data-types"},
			{Title: "Operators", Href: "/docs/operators"},
		},
	},
	{
		Title: "Control Flow",
		Href:  "/docs/control-flow",
		Items: []Item{
			{Title: "Conditionals", Href: "/docs/conditionals"},
			{Title: "Loops", Href: "/docs/loops"},
		},
	},
	{
		Title: "Functions",
		Href:  "/docs/functions",
		Items: []Item{
			{Title: "Defining Functions", Href: "/docs/functions"},
			{Title: "Built-in Functions", Href: "/docs/builtins"},
		},
	},
	{
		Title: "Data Structures",
		Href:  "/docs/data-structures",
		Items: []Item{
			{Title: "Lists", Href: "/docs/lists"},
			{Title: "Dictionaries", Href: "/docs/dictionaries"},
		},
	},
	{
		Title: "Reference",
		Href:  "/docs/reference",
		Items: []Item{
			{Title: "Keywords", Href: "/docs/keywords"},
			{Title: "Error Messages", Href: "/docs/errors"},
		},
	},
	{
		Title: "Advanced Features",
		Href:  "/docs/advanced-features",
		Items: []Item{
			{Title: "Structs", Href: "/docs/structs"},
			{Title: "Enums", Href: "/docs/enums"},
			{Title: "Pattern Matching", Href: "/docs/pattern-matching"},
			{Title: "Error Handling", Href: "/docs/error-handling"},
			{Title: "Modules", Href: "/docs/modules"},
			{Title: "File I/O", Href: "/docs/file-io"},
		},
	},
}

// Default returns the built-in sidebar of the Agam documentation.
func Default() *Tree {
	return MustNew(defaultSections)
}
