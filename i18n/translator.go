package i18n

import "sync"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "field" or "type").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"parse_error":             "parse error",
		"invalid_type":            "invalid type",
		"duplicate_key":           "duplicate key",
		"truncated":               "truncated",
		"canceled":                "canceled",
		"invalid_enum_definition": "invalid enum definition",
		"duplicate_discriminant":  "duplicate enum discriminant",
		"duplicate_field":         "duplicate field name",
		"unsupported_type":        "unsupported field type",
	},
	"ja": {
		"parse_error":             "解析エラー",
		"invalid_type":            "型が不正です",
		"duplicate_key":           "キーが重複しています",
		"truncated":               "打ち切られました",
		"canceled":                "キャンセルされました",
		"invalid_enum_definition": "列挙型の定義が不正です",
		"duplicate_discriminant":  "列挙値の識別子が重複しています",
		"duplicate_field":         "フィールド名が重複しています",
		"unsupported_type":        "未対応のフィールド型です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	if msg, ok := dictionaries[t.lang][code]; ok {
		return msg
	}
	return code
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). Nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
