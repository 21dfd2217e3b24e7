package macro

// DefaultLanguages maps file extensions (without dot) to the fence label used
// when a file is included. Keys also cover a few extension-less basenames.
var DefaultLanguages = map[string]string{
	"bash":       "bash",
	"c":          "c",
	"cfg":        "ini",
	"clj":        "clojure",
	"cpp":        "cpp",
	"cs":         "csharp",
	"css":        "css",
	"csv":        "csv",
	"dart":       "dart",
	"Dockerfile": "dockerfile",
	"ex":         "elixir",
	"gitignore":  "gitignore",
	"go":         "go",
	"h":          "c",
	"hs":         "haskell",
	"html":       "html",
	"ini":        "ini",
	"java":       "java",
	"js":         "javascript",
	"json":       "json",
	"kt":         "kotlin",
	"lua":        "lua",
	"Makefile":   "makefile",
	"md":         "markdown",
	"mod":        "go",
	"php":        "php",
	"pl":         "perl",
	"pm":         "perl",
	"ps1":        "powershell",
	"py":         "python",
	"r":          "r",
	"rb":         "ruby",
	"rs":         "rust",
	"scala":      "scala",
	"sh":         "bash",
	"sql":        "sql",
	"swift":      "swift",
	"t":          "perl",
	"tf":         "hcl",
	"toml":       "toml",
	"ts":         "typescript",
	"txt":        "text",
	"xml":        "xml",
	"yaml":       "yaml",
	"yml":        "yaml",
	"zig":        "zig",
}

// languageKey returns the table key for a file name: the basename for
// dotfiles and extension-less files, otherwise the extension.
func languageKey(name string) string {
	switch {
	case name == "":
		return ""
	case name[0] == '.':
		return name[1:]
	}
	for i := len(name) - 1; i > 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}
