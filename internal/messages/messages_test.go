package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := map[string]Language{
		"":            DefaultLanguage,
		"ja":          LanguageJapanese,
		"JA":          LanguageJapanese,
		"ja_JP.UTF-8": LanguageJapanese,
		"ja-JP":       LanguageJapanese,
		"en_US.UTF-8": LanguageEnglish,
		"C":           LanguageEnglish,
		"de_DE":       DefaultLanguage,
	}
	for input, want := range tests {
		assert.Equal(t, want, Normalize(input), "Normalize(%q)", input)
	}
}

func TestFromLocale(t *testing.T) {
	env := map[string]string{"LANG": "ja_JP.UTF-8"}
	assert.Equal(t, LanguageJapanese, FromLocale(func(k string) string { return env[k] }))

	env["LC_ALL"] = "en_US.UTF-8"
	assert.Equal(t, LanguageEnglish, FromLocale(func(k string) string { return env[k] }))

	assert.Equal(t, DefaultLanguage, FromLocale(func(string) string { return "" }))
}

func TestCatalogEveryKeyTranslated(t *testing.T) {
	for lang, texts := range catalog {
		for key := MissingFolder; key <= Interrupted; key++ {
			assert.NotEmpty(t, texts[key], "missing %s text for key %d", lang, key)
		}
	}
}

func TestCatalogGet(t *testing.T) {
	ja := New(LanguageJapanese)
	assert.Equal(t, "3個のファイルが見つかりました。", ja.Get(FoundMany, 3))
	assert.Equal(t, "/tmp/x は存在しません。", ja.Get(NotExist, "/tmp/x"))

	en := New(LanguageEnglish)
	assert.Equal(t, "Found 3 files.", en.Get(FoundMany, 3))
	assert.Equal(t, "Invalid number", en.Get(InvalidNumber))
}

func TestCatalogUnknownLanguageFallsBack(t *testing.T) {
	c := New(Language("fr"))
	assert.Equal(t, DefaultLanguage, c.Language())

	var zero Catalog
	assert.Equal(t, "Nothing found", zero.Get(NothingFound))
}
