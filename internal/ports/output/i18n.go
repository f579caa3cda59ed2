package output

// T renders user-facing messages. data fills template placeholders and may be nil; an unknown
// key renders as the key itself.
type T interface {
	T(locale, key string, data map[string]any) string
}
