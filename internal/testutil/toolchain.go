package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// fakeCCScript is a stand-in compiler/linker driver for tests. It writes its
// full argument list to the path following -o, so produced "objects" and
// "artifacts" are deterministic functions of the invocation. Any argument
// containing "broken" makes it fail with a diagnostic on stderr, emulating a
// compile error. When FAKECC_LOG is set, each invocation appends its argv to
// that file.
const fakeCCScript = `#!/bin/sh
if [ -n "$FAKECC_LOG" ]; then
  echo "$@" >> "$FAKECC_LOG"
fi
out=""
prev=""
for a in "$@"; do
  case "$a" in
    *broken*) echo "fake-cc: error: cannot process $a" >&2; exit 1 ;;
  esac
  if [ "$prev" = "-o" ]; then out="$a"; fi
  prev="$a"
done
if [ -n "$out" ]; then
  printf 'fake-cc %s\n' "$*" > "$out"
fi
exit 0
`

// FakeCC writes the fake toolchain driver into dir and returns its path.
func FakeCC(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "fake-cc")
	if err := os.WriteFile(path, []byte(fakeCCScript), 0o755); err != nil {
		t.Fatalf("writing fake toolchain: %v", err)
	}
	return path
}

// WriteSources creates empty C source files under dir, creating parent
// directories as needed.
func WriteSources(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating source dir: %v", err)
		}
		if err := os.WriteFile(path, []byte("/* test source */\n"), 0o644); err != nil {
			t.Fatalf("writing source %s: %v", name, err)
		}
	}
}
