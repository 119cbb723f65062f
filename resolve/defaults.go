package resolve

var defaultRoutes = map[string]string{
	"getting-started":  "01_introduction.md",
	"introduction":     "01_introduction.md",
	"installation":     "02_installation.md",
	"hello-world":      "03_hello_world.md",
	"variables":        "04_variables.md",
	"data-types":       "05_data_types.md",
	"operators":        "06_operators.md",
	"conditionals":     "07_conditionals.md",
	"loops":            "08_loops.md",
	"functions":        "09_functions.md",
	"builtins":         "10_builtins.md",
	"lists":            "11_lists.md",
	"dictionaries":     "12_dictionaries.md",
	"keywords":         "13_keywords.md",
	"errors":           "14_errors.md",
	"structs":          "15_structs.md",
	"enums":            "16_enums.md",
	"pattern-matching": "17_pattern_matching.md",
	"error-handling":   "18_error_handling.md",
	"modules":          "19_modules.md",
	"file-io":          "20_file_io.md",
}

// Default returns the built-in route table of the Agam documentation.
func Default() *Resolver {
	return MustNew(defaultRoutes, DefaultFallback)
}
