package models

// TranslationTable maps a translation key to localized text for one language.
type TranslationTable map[string]string

// Lookup returns the text for key and whether it exists.
func (t TranslationTable) Lookup(key string) (string, bool) {
	v, ok := t[key]
	return v, ok
}
