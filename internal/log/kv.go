package log

import "sort"

// KV is a set of key-value pairs attached to a log line.
type KV map[string]any

// Namespaces used across sqlitehelper.
const (
	NsHandle    = "handle"
	NsFiletable = "filetable"
	NsDemo      = "demo"
	NsShell     = "shell"
)

// kvToArgs flattens the first KV into slog arguments sorted by key. Only the
// first KV is used, the rest are ignored.
func kvToArgs(keyVals ...KV) []any {
	if len(keyVals) == 0 {
		return []any{}
	}

	kv := keyVals[0]
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(kv)*2)
	for _, k := range keys {
		args = append(args, k, kv[k])
	}
	return args
}

// kvToArgsNs works like kvToArgs but puts the namespace first under the
// "ns" key.
func kvToArgsNs(namespace string, keyVals ...KV) []any {
	return append([]any{"ns", namespace}, kvToArgs(keyVals...)...)
}
