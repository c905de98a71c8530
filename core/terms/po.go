// Copyright 2025 - 2026, the locsync contributors
// SPDX-License-Identifier: AGPL-3.0-only

package terms

import (
	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog/log"
)

// loadPO reads a gettext catalog into a Table: msgid is the base-language
// phrase and msgstr its translation. Untranslated entries are left out.
func loadPO(path string, data []byte) *Table {
	po := gotext.NewPo()
	po.Parse(data)

	domain := po.GetDomain()
	entries := make(map[string]string)

	for phrase, tr := range domain.GetTranslations() {
		// The header lives under the empty msgid. Only msgstr[0] is read,
		// whatever the file's plural rule.
		if phrase == "" || !tr.IsTranslatedN(0) {
			continue
		}

		entries[phrase] = tr.Get()
	}

	t := &Table{entries: entries}
	if t.Len() == 0 {
		log.Warn().
			Str("sys", "terms").
			Str("file", path).
			Msg("No translated entries in PO dictionary")
	}

	return t
}
