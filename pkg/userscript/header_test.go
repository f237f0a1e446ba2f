package userscript_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/torngate/pkg/userscript"
)

const marketHelper = `// ==UserScript==
// @name         Torn Market Helper
// @version      1.0
// @description  Adds additional features to Torn market pages
// @match        https://www.torn.com/imarket.php*
// @match        https://www.torn.com/bazaar.php*
// @grant        none
// ==/UserScript==

(function() {
    'use strict';
})();
`

var _ = Describe("ParseMetadata", func() {
	It("reads the metadata block", func() {
		meta, ok := userscript.ParseMetadata(marketHelper)

		Expect(ok).To(BeTrue())
		Expect(meta.Name).To(Equal("Torn Market Helper"))
		Expect(meta.Version).To(Equal("1.0"))
		Expect(meta.Description).To(Equal("Adds additional features to Torn market pages"))
		Expect(meta.Match).To(Equal([]string{
			"https://www.torn.com/imarket.php*",
			"https://www.torn.com/bazaar.php*",
		}))
		Expect(meta.Enabled).To(BeTrue())
	})

	It("honours an enabled flag", func() {
		code := "// ==UserScript==\n// @name x\n// @enabled false\n// ==/UserScript==\n"

		meta, ok := userscript.ParseMetadata(code)
		Expect(ok).To(BeTrue())
		Expect(meta.Enabled).To(BeFalse())
	})

	It("reports a missing block", func() {
		_, ok := userscript.ParseMetadata("console.log('no header');")
		Expect(ok).To(BeFalse())
	})

	It("reports an unterminated block", func() {
		_, ok := userscript.ParseMetadata("// ==UserScript==\n// @name x\n")
		Expect(ok).To(BeFalse())
	})
})
