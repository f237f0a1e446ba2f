package userscript

import "context"

// StaticCatalog is a fixed, in-memory catalog.
type StaticCatalog struct {
	scripts []Script
}

// NewStaticCatalog returns a catalog serving scripts. With no arguments it
// serves the built-in sample catalog.
func NewStaticCatalog(scripts ...Script) *StaticCatalog {
	if len(scripts) == 0 {
		scripts = defaultScripts
	}
	return &StaticCatalog{scripts: scripts}
}

// List returns a copy of the catalog.
func (s *StaticCatalog) List(_ context.Context) ([]Script, error) {
	out := make([]Script, len(s.scripts))
	copy(out, s.scripts)
	return out, nil
}

var defaultScripts = []Script{
	{
		ID:          1,
		Name:        "Torn Stats Helper",
		Description: "Adds statistics insights to profile pages",
		Enabled:     true,
		Code:        "// Sample userscript code\n(function() {\n  console.log('Torn Stats Helper loaded');\n  // Add your userscript code here\n})();",
	},
	{
		ID:          2,
		Name:        "Trade Calculator",
		Description: "Adds profit calculation to trade pages",
		Enabled:     false,
		Code:        "// Sample userscript code\n(function() {\n  console.log('Trade Calculator loaded');\n  // Add your userscript code here\n})();",
	},
}
