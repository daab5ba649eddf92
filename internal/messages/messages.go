// Package messages holds the user-facing console text in each supported
// language.
package messages

import (
	"fmt"
	"strings"
)

// Language is a short language code such as ja or en.
type Language string

const (
	LanguageJapanese Language = "ja"
	LanguageEnglish  Language = "en"

	DefaultLanguage = LanguageEnglish
)

// Normalize maps user input (flag, env or locale string) to a supported
// language. Unknown values fall back to the default.
func Normalize(value string) Language {
	lang := strings.ToLower(strings.TrimSpace(value))
	if i := strings.IndexAny(lang, "._@"); i >= 0 {
		lang = lang[:i]
	}
	switch lang {
	case "ja", "ja-jp", "jp", "japanese", "日本語":
		return LanguageJapanese
	case "en", "en-us", "en-gb", "english", "c", "posix":
		return LanguageEnglish
	default:
		return DefaultLanguage
	}
}

// FromLocale picks a language from LC_ALL, LC_MESSAGES and LANG in that order.
func FromLocale(getenv func(string) string) Language {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return Normalize(v)
		}
	}
	return DefaultLanguage
}

// Key identifies one message.
type Key int

const (
	MissingFolder Key = iota
	MissingText
	TooManyArgs
	Searching
	NotExist
	NotDirectory
	WalkFailed
	NothingFound
	Suggestions
	FoundOne
	OpeningAutomatically
	FoundMany
	Prompt
	InvalidNumber
	Unsupported
	OpenFailed
	SelectionCancelled
	Interrupted
)

var catalog = map[Language]map[Key]string{
	LanguageJapanese: {
		MissingFolder:        "検索フォルダを引数に入力してください。",
		MissingText:          "検索テキストを引数に入力してください。",
		TooManyArgs:          "引数が多すぎます。使い方: %s <検索フォルダ> <検索テキスト>",
		Searching:            "検索中...",
		NotExist:             "%s は存在しません。",
		NotDirectory:         "%s はフォルダではありません。",
		WalkFailed:           "検索中にエラーが発生しました: %v",
		NothingFound:         "見つかりませんでした",
		Suggestions:          "もしかして:",
		FoundOne:             "1個のファイルが見つかりました。",
		OpeningAutomatically: "一つのため、自動で開きます。",
		FoundMany:            "%d個のファイルが見つかりました。",
		Prompt:               "開きたいファイルの番号を入力してください: ",
		InvalidNumber:        "無効な番号です",
		Unsupported:          "未対応のファイルです。",
		OpenFailed:           "ファイルを開けませんでした: %v",
		SelectionCancelled:   "キャンセルしました",
		Interrupted:          "中断しました",
	},
	LanguageEnglish: {
		MissingFolder:        "Please pass the folder to search as the first argument.",
		MissingText:          "Please pass the text to search for as the second argument.",
		TooManyArgs:          "Too many arguments. Usage: %s <folder> <text>",
		Searching:            "Searching...",
		NotExist:             "%s does not exist.",
		NotDirectory:         "%s is not a folder.",
		WalkFailed:           "Search failed: %v",
		NothingFound:         "Nothing found",
		Suggestions:          "Did you mean:",
		FoundOne:             "Found 1 file.",
		OpeningAutomatically: "Only one match, opening it automatically.",
		FoundMany:            "Found %d files.",
		Prompt:               "Enter the number of the file to open: ",
		InvalidNumber:        "Invalid number",
		Unsupported:          "Unsupported file type.",
		OpenFailed:           "Could not open the file: %v",
		SelectionCancelled:   "Cancelled",
		Interrupted:          "Interrupted",
	},
}

// Catalog renders messages in one language.
type Catalog struct {
	lang Language
}

func New(lang Language) Catalog {
	if _, ok := catalog[lang]; !ok {
		lang = DefaultLanguage
	}
	return Catalog{lang: lang}
}

func (c Catalog) Language() Language {
	if c.lang == "" {
		return DefaultLanguage
	}
	return c.lang
}

// Get formats the message for key with args.
func (c Catalog) Get(key Key, args ...any) string {
	text, ok := catalog[c.Language()][key]
	if !ok {
		text = catalog[DefaultLanguage][key]
	}
	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}
