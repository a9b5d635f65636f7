package lang

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ardnew/mung"
)

func registerPath(r *Registry) {
	r.Register("path.prefix", pathPrefix)
	r.Register("path.prefixif", pathPrefixIf)
	r.Register("path.join", pathJoin)
	r.Register("path.abs", pathAbs)
	r.Register("path.base", textMap(filepath.Base))
	r.Register("path.dir", textMap(filepath.Dir))
	r.Register("file.exists", fileTest(func(os.FileInfo) bool { return true }))
	r.Register("file.isdir", fileTest(os.FileInfo.IsDir))
}

// pathPrefix prepends the prefix items to the PATH-like list in subject.
func pathPrefix(_ context.Context, call *Call) Value {
	subject, prefix, fail, ok := prefixArgs(call)
	if !ok {
		return fail
	}

	return TextValue(mungPrefix(subject, prefix...))
}

// pathPrefixIf is like pathPrefix but keeps only items naming existing
// directories.
func pathPrefixIf(_ context.Context, call *Call) Value {
	subject, prefix, fail, ok := prefixArgs(call)
	if !ok {
		return fail
	}

	return TextValue(mungPrefixIf(subject, isDir, prefix...))
}

func prefixArgs(call *Call) (string, []string, Value, bool) {
	subject, fail, ok := call.TextArg("subject")
	if !ok {
		return "", nil, fail, false
	}

	v, found := call.Arg("prefix")

	switch {
	case !found:
		return "", nil, call.Fail("expects argument 'prefix'"), false
	case v.IsError():
		return "", nil, v, false
	case v.Kind == KindText:
		return subject, []string{v.Text}, Value{}, true
	case v.Kind == KindColumn:
		prefix, fail, ok := call.TextItems(v.Items)
		if !ok {
			return "", nil, fail, false
		}

		return subject, prefix, Value{}, true
	}

	return "", nil, call.Fail("expects text or column argument"), false
}

func mungPrefix(subject string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

func mungPrefixIf(
	subject string,
	predicate func(string) bool,
	prefix ...string,
) string {
	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(predicate),
	).String()
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func pathJoin(_ context.Context, call *Call) Value {
	items, fail, ok := call.ColumnArg("items")
	if !ok {
		return fail
	}

	parts, fail, ok := call.TextItems(items)
	if !ok {
		return fail
	}

	return TextValue(filepath.Join(parts...))
}

func pathAbs(_ context.Context, call *Call) Value {
	a, fail, ok := call.TextArg("a")
	if !ok {
		return fail
	}

	abs, err := filepath.Abs(a)
	if err != nil {
		return call.Fail("failed: " + err.Error())
	}

	return TextValue(abs)
}

// fileTest reports "true" if argument a names a file satisfying pred.
func fileTest(pred func(os.FileInfo) bool) Native {
	return func(_ context.Context, call *Call) Value {
		a, fail, ok := call.TextArg("a")
		if !ok {
			return fail
		}

		info, err := os.Stat(a)

		return TextValue(strconv.FormatBool(err == nil && pred(info)))
	}
}
